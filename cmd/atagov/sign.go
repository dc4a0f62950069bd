package main

import (
	"encoding/json"
	"fmt"
	"time"

	eth_crypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/atalabs/ata-gov/types"
	"github.com/atalabs/ata-gov/voting"
)

type signArguments struct {
	Skey     string
	Proposal uint64
	Choice   int64
}

var signArgs signArguments

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a ballot and print it without submitting",
	Run:   signRun,
}

func init() {
	skeyFlag(signCmd, &signArgs.Skey)
	signCmd.Flags().Uint64VarP(&signArgs.Proposal, "proposal", "p", 0, "proposal id")
	signCmd.Flags().Int64VarP(&signArgs.Choice, "choice", "c", 0, "option index")
}

func signRun(cmd *cobra.Command, args []string) {
	key, err := loadKey(signArgs.Skey)
	if err != nil {
		fmt.Printf("load key err:%v\n", err)
		return
	}
	voter := eth_crypto.PubkeyToAddress(key.PublicKey).Hex()
	msg := types.VoteMessage{
		ProposalId: signArgs.Proposal,
		Voter:      voter,
		Choice:     signArgs.Choice,
		Timestamp:  time.Now().Unix(),
	}
	sig, err := voting.SignBallot(msg, key)
	if err != nil {
		fmt.Printf("sign ballot err:%v\n", err)
		return
	}
	out, _ := json.Marshal(map[string]any{"message": msg, "signature": sig})
	fmt.Println(string(out))
	println("voter:", voter)
}
