package voting

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/atalabs/ata-gov/types"
)

// Ballots are EIP-712 typed data signed off-chain by the voter's wallet.
// Domain and schema are fixed; changing either invalidates every
// outstanding ballot.
var ballotDomain = apitypes.TypedDataDomain{
	Name:    "ATA Voting",
	Version: "1",
	ChainId: math.NewHexOrDecimal256(8453),
}

var ballotTypes = apitypes.Types{
	"EIP712Domain": []apitypes.Type{
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
	},
	"Vote": []apitypes.Type{
		{Name: "proposalId", Type: "uint256"},
		{Name: "voter", Type: "address"},
		{Name: "choice", Type: "uint256"},
		{Name: "timestamp", Type: "uint256"},
	},
}

// BallotDigest returns the EIP-712 signing hash of a ballot.
func BallotDigest(msg types.VoteMessage) ([]byte, error) {
	typedData := apitypes.TypedData{
		Types:       ballotTypes,
		PrimaryType: "Vote",
		Domain:      ballotDomain,
		Message: apitypes.TypedDataMessage{
			"proposalId": (*math.HexOrDecimal256)(new(big.Int).SetUint64(msg.ProposalId)),
			"voter":      msg.Voter,
			"choice":     (*math.HexOrDecimal256)(big.NewInt(msg.Choice)),
			"timestamp":  (*math.HexOrDecimal256)(big.NewInt(msg.Timestamp)),
		},
	}
	digest, _, err := apitypes.TypedDataAndHash(typedData)
	return digest, err
}

// VerifyBallot recovers the signer of the ballot and reports whether it
// matches claimedAddress (case-insensitive). Malformed signatures, bad
// message fields and recovery failures are ordinary false results, never
// errors.
func VerifyBallot(msg types.VoteMessage, signature, claimedAddress string) bool {
	digest, err := BallotDigest(msg)
	if err != nil {
		return false
	}
	sig, err := hexutil.Decode(signature)
	if err != nil || len(sig) != crypto.SignatureLength {
		return false
	}
	// Wallets produce v in {27, 28}; SigToPub wants {0, 1}.
	recID := make([]byte, crypto.SignatureLength)
	copy(recID, sig)
	if recID[crypto.RecoveryIDOffset] >= 27 {
		recID[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(digest, recID)
	if err != nil {
		return false
	}
	return crypto.PubkeyToAddress(*pub) == common.HexToAddress(claimedAddress)
}

// SignBallot signs a ballot with a raw private key, producing the same
// wire format as a wallet's signTypedData (v in {27, 28}). Used by the
// CLI vote/sign commands and in tests.
func SignBallot(msg types.VoteMessage, key *ecdsa.PrivateKey) (string, error) {
	digest, err := BallotDigest(msg)
	if err != nil {
		return "", err
	}
	sig, err := crypto.Sign(digest, key)
	if err != nil {
		return "", err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}
