package tokenctl

// AccountABI is the interface the client expects from the account contract.
const AccountABI = `[
	{
		"type": "constructor",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "publicKey", "type": "uint256"}
		]
	},
	{
		"name": "execute",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "to", "type": "address"},
			{"name": "data", "type": "bytes"}
		],
		"outputs": [
			{"name": "", "type": "bytes"}
		]
	},
	{
		"name": "publicKey",
		"type": "function",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [
			{"name": "", "type": "uint256"}
		]
	}
]`

// TokenABI is the interface the client expects from the capped token
// contract. Amounts travel as (low, high) uint128 pairs.
const TokenABI = `[
	{
		"type": "constructor",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "name", "type": "uint256"},
			{"name": "symbol", "type": "uint256"},
			{"name": "decimals", "type": "uint8"},
			{"name": "owner", "type": "address"},
			{"name": "capLow", "type": "uint128"},
			{"name": "capHigh", "type": "uint128"}
		]
	},
	{
		"name": "mint",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "to", "type": "address"},
			{"name": "amountLow", "type": "uint128"},
			{"name": "amountHigh", "type": "uint128"}
		],
		"outputs": []
	},
	{
		"name": "transfer",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "to", "type": "address"},
			{"name": "amountLow", "type": "uint128"},
			{"name": "amountHigh", "type": "uint128"}
		],
		"outputs": [
			{"name": "", "type": "bool"}
		]
	},
	{
		"name": "balanceOf",
		"type": "function",
		"stateMutability": "view",
		"inputs": [
			{"name": "account", "type": "address"}
		],
		"outputs": [
			{"name": "low", "type": "uint128"},
			{"name": "high", "type": "uint128"}
		]
	},
	{
		"name": "name",
		"type": "function",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [
			{"name": "", "type": "uint256"}
		]
	},
	{
		"name": "symbol",
		"type": "function",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [
			{"name": "", "type": "uint256"}
		]
	},
	{
		"name": "decimals",
		"type": "function",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [
			{"name": "", "type": "uint8"}
		]
	}
]`

// DefaultArtifacts returns ABI-only artifacts built from AccountABI and
// TokenABI. They serve read-only calls and calldata packing but cannot be
// deployed.
func DefaultArtifacts() Artifacts {
	return Artifacts{
		Account: &Artifact{Name: AccountArtifactFile, ABI: MustParseABI(AccountABI)},
		Token:   &Artifact{Name: TokenArtifactFile, ABI: MustParseABI(TokenABI)},
	}
}
