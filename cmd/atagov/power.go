package main

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"
)

type powerArguments struct {
	Url     string
	Address string
	Block   uint64
}

var powerArgs powerArguments

var powerCmd = &cobra.Command{
	Use:   "power",
	Short: "Query the voting power of an address",
	Run:   powerRun,
}

func init() {
	urlFlag(powerCmd, &powerArgs.Url)
	powerCmd.Flags().StringVarP(&powerArgs.Address, "address", "a", "", "voter address")
	powerCmd.Flags().Uint64VarP(&powerArgs.Block, "block", "b", 0, "historical block (0 = latest)")
}

func powerRun(cmd *cobra.Command, args []string) {
	url := powerArgs.Url + "/voting/power/" + powerArgs.Address
	if powerArgs.Block > 0 {
		url += "?block=" + strconv.FormatUint(powerArgs.Block, 10)
	}
	res, err := http.Get(url)
	if err != nil {
		fmt.Printf("get power err:%v\n", err)
		return
	}
	defer res.Body.Close()
	buf, _ := io.ReadAll(res.Body)
	fmt.Printf("%v %v\n", res.Status, string(buf))
}
