package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	eth_crypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/atalabs/ata-gov/types"
	"github.com/atalabs/ata-gov/voting"
)

type voteArguments struct {
	Url      string
	Skey     string
	Proposal uint64
	Choice   int64
}

var voteArgs voteArguments

var voteCmd = &cobra.Command{
	Use:   "vote",
	Short: "Sign a ballot and submit it to a running service",
	Run:   voteRun,
}

func init() {
	urlFlag(voteCmd, &voteArgs.Url)
	skeyFlag(voteCmd, &voteArgs.Skey)
	voteCmd.Flags().Uint64VarP(&voteArgs.Proposal, "proposal", "p", 0, "proposal id")
	voteCmd.Flags().Int64VarP(&voteArgs.Choice, "choice", "c", 0, "option index")
}

func voteRun(cmd *cobra.Command, args []string) {
	key, err := loadKey(voteArgs.Skey)
	if err != nil {
		fmt.Printf("load key err:%v\n", err)
		return
	}
	voter := eth_crypto.PubkeyToAddress(key.PublicKey).Hex()
	msg := types.VoteMessage{
		ProposalId: voteArgs.Proposal,
		Voter:      voter,
		Choice:     voteArgs.Choice,
		Timestamp:  time.Now().Unix(),
	}
	sig, err := voting.SignBallot(msg, key)
	if err != nil {
		fmt.Printf("sign ballot err:%v\n", err)
		return
	}
	req := voting.VoteRequest{
		ProposalId: voteArgs.Proposal,
		Voter:      voter,
		Choice:     voteArgs.Choice,
		Signature:  sig,
		Message:    msg,
	}
	body, err := json.Marshal(req)
	if err != nil {
		fmt.Printf("marshal request err:%v\n", err)
		return
	}
	res, err := http.Post(voteArgs.Url+"/voting/vote", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("post vote err:%v\n", err)
		return
	}
	defer res.Body.Close()
	buf, _ := io.ReadAll(res.Body)
	fmt.Printf("%v %v\n", res.Status, string(buf))
}
