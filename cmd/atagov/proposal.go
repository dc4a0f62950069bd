package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/atalabs/ata-gov/voting"
)

type newProposalArguments struct {
	Url         string
	Title       string
	Description string
	Options     []string
	Category    string
	Creator     string
	VotingDays  int
}

var newProposalArgs newProposalArguments

var newProposalCmd = &cobra.Command{
	Use:   "newproposal",
	Short: "Create a proposal against a running service",
	Run:   newProposalRun,
}

func init() {
	urlFlag(newProposalCmd, &newProposalArgs.Url)
	newProposalCmd.Flags().StringVarP(&newProposalArgs.Title, "title", "t", "", "proposal title")
	newProposalCmd.Flags().StringVarP(&newProposalArgs.Description, "description", "", "", "proposal description")
	newProposalCmd.Flags().StringSliceVarP(&newProposalArgs.Options, "options", "o", nil, "proposal options (at least two)")
	newProposalCmd.Flags().StringVarP(&newProposalArgs.Category, "category", "c", "", "proposal category")
	newProposalCmd.Flags().StringVarP(&newProposalArgs.Creator, "creator", "", "", "creator address")
	newProposalCmd.Flags().IntVarP(&newProposalArgs.VotingDays, "votingDays", "", 0, "voting window in days (default 7)")
}

func newProposalRun(cmd *cobra.Command, args []string) {
	req := voting.CreateProposalRequest{
		Title:       newProposalArgs.Title,
		Description: newProposalArgs.Description,
		Options:     newProposalArgs.Options,
		Category:    newProposalArgs.Category,
		Creator:     newProposalArgs.Creator,
		VotingDays:  newProposalArgs.VotingDays,
	}
	body, err := json.Marshal(req)
	if err != nil {
		fmt.Printf("marshal request err:%v\n", err)
		return
	}
	res, err := http.Post(newProposalArgs.Url+"/voting/proposals", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("post proposal err:%v\n", err)
		return
	}
	defer res.Body.Close()
	buf, _ := io.ReadAll(res.Body)
	fmt.Printf("%v %v\n", res.Status, string(buf))
}
