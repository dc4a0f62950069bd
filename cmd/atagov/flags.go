package main

import (
	"crypto/ecdsa"
	"os"
	"strings"

	eth_crypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

func urlFlag(cmd *cobra.Command, url *string) {
	cmd.Flags().StringVarP(url, "url", "u", "http://127.0.0.1:8645", "atagov service url")
}

func skeyFlag(cmd *cobra.Command, path *string) {
	cmd.Flags().StringVarP(path, "skeyPath", "s", "./config/owner_priv_key", "hex private key path")
}

func loadKey(path string) (*ecdsa.PrivateKey, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return eth_crypto.HexToECDSA(strings.TrimSpace(string(buf)))
}
