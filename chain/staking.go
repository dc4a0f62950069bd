package chain

import (
	"context"
	"math/big"
	"strings"
	"time"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/atalabs/ata-gov/types"
)

// View surface of the staking contract this service depends on.
const stakingABI = `[
	{
		"name": "getUserPositions",
		"type": "function",
		"stateMutability": "view",
		"inputs": [{"name": "account", "type": "address"}],
		"outputs": [{
			"name": "",
			"type": "tuple[]",
			"components": [
				{"name": "amount", "type": "uint256"},
				{"name": "lockDurationWeeks", "type": "uint256"},
				{"name": "start", "type": "uint256"},
				{"name": "end", "type": "uint256"}
			]
		}]
	}
]`

const callTimeout = 10 * time.Second

type stakePosition struct {
	Amount            *big.Int
	LockDurationWeeks *big.Int
	Start             *big.Int
	End               *big.Int
}

// StakingClient reads lock positions from the staking contract over JSON-RPC.
// It implements power.PositionSource.
type StakingClient struct {
	logger   log.Logger
	client   *ethclient.Client
	abi      abi.ABI
	contract common.Address
}

func NewStakingClient(logger log.Logger, rpcURL string, contract string) (*StakingClient, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, err
	}
	parsed, err := abi.JSON(strings.NewReader(stakingABI))
	if err != nil {
		return nil, err
	}
	return &StakingClient{
		logger:   logger.With("module", "staking"),
		client:   client,
		abi:      parsed,
		contract: common.HexToAddress(contract),
	}, nil
}

// Positions returns the lock positions of address at blockNumber
// (0 = latest block).
func (c *StakingClient) Positions(ctx context.Context, address string, blockNumber uint64) ([]types.Position, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	data, err := c.abi.Pack("getUserPositions", common.HexToAddress(address))
	if err != nil {
		return nil, err
	}
	var atBlock *big.Int
	if blockNumber > 0 {
		atBlock = new(big.Int).SetUint64(blockNumber)
	}
	raw, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &c.contract,
		Data: data,
	}, atBlock)
	if err != nil {
		return nil, err
	}
	return decodePositions(c.abi, raw)
}

func decodePositions(parsed abi.ABI, raw []byte) ([]types.Position, error) {
	out, err := parsed.Unpack("getUserPositions", raw)
	if err != nil {
		return nil, err
	}
	decoded := *abi.ConvertType(out[0], new([]stakePosition)).(*[]stakePosition)

	positions := make([]types.Position, 0, len(decoded))
	for _, p := range decoded {
		positions = append(positions, types.Position{
			Amount:            p.Amount,
			LockDurationWeeks: p.LockDurationWeeks.Uint64(),
			Start:             p.Start.Int64(),
			End:               p.End.Int64(),
		})
	}
	return positions, nil
}

// BlockNumber returns the current chain head height.
func (c *StakingClient) BlockNumber(ctx context.Context) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	return c.client.BlockNumber(ctx)
}

func (c *StakingClient) Close() {
	c.client.Close()
}
