package tokenctl

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

// stubBackend is a legacy-fee chain that records sent transactions and hands
// out receipts after a configurable number of polls.
type stubBackend struct {
	EthBackend

	nonce      uint64
	sent       []*types.Transaction
	receipts   map[common.Hash]*types.Receipt
	pending    int // polls answered with NotFound before the receipt shows up
	polls      int
	receiptErr error
	callOut    []byte
	callMsg    ethereum.CallMsg
	code       map[common.Address][]byte // deployed code; every other address is empty
	noProxy    bool                      // no code anywhere, including the deployment proxy
}

func newStubBackend() *stubBackend {
	return &stubBackend{
		receipts: make(map[common.Hash]*types.Receipt),
		code:     make(map[common.Address][]byte),
	}
}

func (b *stubBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(1)}, nil
}

func (b *stubBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (b *stubBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return b.nonce, nil
}

func (b *stubBackend) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	if b.noProxy {
		return nil, nil
	}
	return []byte{0x00}, nil
}

func (b *stubBackend) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return b.code[account], nil
}

// mine gives tx a successful receipt.
func (b *stubBackend) mine(tx *types.Transaction) {
	b.receipts[tx.Hash()] = &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(2)}
}

func (b *stubBackend) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	return 100_000, nil
}

func (b *stubBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	b.sent = append(b.sent, tx)
	b.nonce++
	return nil
}

func (b *stubBackend) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	b.polls++
	if b.receiptErr != nil {
		return nil, b.receiptErr
	}
	if b.polls <= b.pending {
		return nil, ethereum.NotFound
	}
	if r, ok := b.receipts[hash]; ok {
		return r, nil
	}
	return nil, ethereum.NotFound
}

func (b *stubBackend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	b.callMsg = call
	return b.callOut, nil
}

var testChainID = big.NewInt(31337)

func newTestProvider(t *testing.T, backend *stubBackend, opts ...ProviderOption) *EthProvider {
	t.Helper()
	opts = append([]ProviderOption{WithPollInterval(time.Millisecond)}, opts...)
	return NewEthProvider(backend, testChainID, opts...)
}

func TestEthProviderDeployUnsalted(t *testing.T) {
	backend := newStubBackend()
	backend.nonce = 7
	p := newTestProvider(t, backend)
	key, err := crypto.HexToECDSA(testPrivateKey)
	require.NoError(t, err)

	art := testArtifacts().Token
	owner := common.HexToAddress("0x1111111111111111111111111111111111111111")
	args := []any{big.NewInt(1), big.NewInt(2), uint8(18), owner, big.NewInt(10), big.NewInt(0)}

	dep, err := p.DeployContract(context.Background(), key, DeployRequest{Artifact: art, ConstructorArgs: args})
	require.NoError(t, err)
	require.Len(t, backend.sent, 1)

	tx := backend.sent[0]
	require.Nil(t, tx.To(), "contract creation")
	require.Equal(t, uint64(7), tx.Nonce())
	require.Equal(t, tx.Hash(), dep.TransactionHash)
	require.Equal(t, crypto.CreateAddress(crypto.PubkeyToAddress(key.PublicKey), 7), dep.ContractAddress)

	want, err := art.InitCode(args...)
	require.NoError(t, err)
	require.Equal(t, want, tx.Data())

	sender, err := types.Sender(types.LatestSignerForChainID(testChainID), tx)
	require.NoError(t, err)
	require.Equal(t, crypto.PubkeyToAddress(key.PublicKey), sender)
}

func TestEthProviderDeploySalted(t *testing.T) {
	backend := newStubBackend()
	p := newTestProvider(t, backend, WithGasLimit(500_000))
	key, err := crypto.HexToECDSA(testPrivateKey)
	require.NoError(t, err)
	pair := NewKeyPair(key)

	art := testArtifacts().Account
	salt := pair.Salt()
	dep, err := p.DeployContract(context.Background(), key, DeployRequest{
		Artifact:        art,
		ConstructorArgs: []any{pair.PublicKeyInt()},
		Salt:            &salt,
	})
	require.NoError(t, err)
	require.Len(t, backend.sent, 1)

	tx := backend.sent[0]
	require.Equal(t, DefaultDeployerProxy, *tx.To())
	require.Equal(t, uint64(500_000), tx.Gas(), "configured gas limit")

	initCode, err := art.InitCode(pair.PublicKeyInt())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(tx.Data(), salt.Bytes()), "salt first")
	require.Equal(t, initCode, tx.Data()[common.HashLength:])
	require.Equal(t, crypto.CreateAddress2(DefaultDeployerProxy, salt, crypto.Keccak256(initCode)), dep.ContractAddress)
}

func TestEthProviderDeployWithoutProxy(t *testing.T) {
	backend := newStubBackend()
	backend.noProxy = true
	// A fixed gas limit skips estimation, so nothing rejects the send up front.
	p := newTestProvider(t, backend, WithGasLimit(500_000))
	key, err := crypto.HexToECDSA(testPrivateKey)
	require.NoError(t, err)
	pair := NewKeyPair(key)

	salt := pair.Salt()
	dep, err := p.DeployContract(context.Background(), key, DeployRequest{
		Artifact:        testArtifacts().Account,
		ConstructorArgs: []any{pair.PublicKeyInt()},
		Salt:            &salt,
	})
	require.NoError(t, err)
	require.Len(t, backend.sent, 1)
	backend.mine(backend.sent[0])

	err = p.WaitForTransaction(context.Background(), dep.TransactionHash)
	var perr *ProviderError
	require.True(t, errors.As(err, &perr), "got %v", err)
	require.ErrorIs(t, err, ErrNoContractCode)
	require.Contains(t, err.Error(), dep.ContractAddress.Hex())
}

func TestEthProviderWaitChecksDeployedCode(t *testing.T) {
	backend := newStubBackend()
	p := newTestProvider(t, backend)
	key, err := crypto.HexToECDSA(testPrivateKey)
	require.NoError(t, err)

	owner := common.HexToAddress("0x1111111111111111111111111111111111111111")
	dep, err := p.DeployContract(context.Background(), key, DeployRequest{
		Artifact:        testArtifacts().Token,
		ConstructorArgs: []any{big.NewInt(1), big.NewInt(2), uint8(18), owner, big.NewInt(10), big.NewInt(0)},
	})
	require.NoError(t, err)
	backend.mine(backend.sent[0])
	backend.code[dep.ContractAddress] = []byte{0x60, 0x80}

	require.NoError(t, p.WaitForTransaction(context.Background(), dep.TransactionHash))

	// Plain transactions are not checked for code.
	to := common.HexToAddress("0x2222222222222222222222222222222222222222")
	hash, err := p.Invoke(context.Background(), key, to, []byte{0x01})
	require.NoError(t, err)
	backend.mine(backend.sent[1])
	require.NoError(t, p.WaitForTransaction(context.Background(), hash))
}

func TestEthProviderDeployRequiresBytecode(t *testing.T) {
	backend := newStubBackend()
	p := newTestProvider(t, backend)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	_, err = p.DeployContract(context.Background(), key, DeployRequest{Artifact: DefaultArtifacts().Account})
	require.ErrorIs(t, err, ErrNoBytecode)

	_, err = p.DeployContract(context.Background(), key, DeployRequest{})
	require.ErrorIs(t, err, ErrArtifactMissing)
	require.Empty(t, backend.sent)
}

func TestEthProviderInvoke(t *testing.T) {
	backend := newStubBackend()
	p := newTestProvider(t, backend)
	key, err := crypto.HexToECDSA(testPrivateKey)
	require.NoError(t, err)

	to := common.HexToAddress("0x2222222222222222222222222222222222222222")
	data := []byte{0xde, 0xad, 0xbe, 0xef}
	hash, err := p.Invoke(context.Background(), key, to, data)
	require.NoError(t, err)
	require.Len(t, backend.sent, 1)
	require.Equal(t, to, *backend.sent[0].To())
	require.Equal(t, data, backend.sent[0].Data())
	require.Equal(t, backend.sent[0].Hash(), hash)
	require.Zero(t, testChainID.Cmp(backend.sent[0].ChainId()))
}

func TestEthProviderWaitForTransaction(t *testing.T) {
	hash := common.HexToHash("0x01")

	t.Run("polls until mined", func(t *testing.T) {
		backend := newStubBackend()
		backend.pending = 3
		backend.receipts[hash] = &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(2)}
		p := newTestProvider(t, backend)

		require.NoError(t, p.WaitForTransaction(context.Background(), hash))
		require.Equal(t, 4, backend.polls)
	})

	t.Run("reverted", func(t *testing.T) {
		backend := newStubBackend()
		backend.receipts[hash] = &types.Receipt{Status: types.ReceiptStatusFailed, BlockNumber: big.NewInt(2)}
		p := newTestProvider(t, backend)

		err := p.WaitForTransaction(context.Background(), hash)
		var perr *ProviderError
		require.True(t, errors.As(err, &perr))
		require.ErrorIs(t, err, ErrTransactionReverted)
	})

	t.Run("rpc failure is terminal", func(t *testing.T) {
		backend := newStubBackend()
		backend.receiptErr = errors.New("connection refused")
		p := newTestProvider(t, backend)

		err := p.WaitForTransaction(context.Background(), hash)
		require.ErrorIs(t, err, backend.receiptErr)
		require.Equal(t, 1, backend.polls)
	})

	t.Run("context cancelled", func(t *testing.T) {
		backend := newStubBackend()
		p := newTestProvider(t, backend)
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := p.WaitForTransaction(ctx, hash)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestEthProviderCall(t *testing.T) {
	backend := newStubBackend()
	backend.callOut = []byte{0x01, 0x02}
	p := newTestProvider(t, backend)

	to := common.HexToAddress("0x2222222222222222222222222222222222222222")
	out, err := p.Call(context.Background(), to, []byte{0xaa})
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02}, out)
	require.Equal(t, to, *backend.callMsg.To)
	require.Equal(t, []byte{0xaa}, backend.callMsg.Data)
}

func TestEthProviderChainID(t *testing.T) {
	p := newTestProvider(t, newStubBackend())
	id := p.ChainID()
	require.Zero(t, testChainID.Cmp(id))

	id.SetInt64(1)
	require.Equal(t, int64(31337), p.ChainID().Int64(), "returned chain id is a copy")
	p.Close()
}
