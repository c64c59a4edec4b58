package tokenctl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Artifact file names looked up by LoadArtifacts.
const (
	AccountArtifactFile = "Account.json"
	TokenArtifactFile   = "ERC20.json"
)

// Artifact is a compiled contract: its ABI and, when deployable, its creation
// bytecode.
type Artifact struct {
	Name     string
	ABI      abi.ABI
	Bytecode []byte
}

// Artifacts holds the two contracts the client works with.
type Artifacts struct {
	Account *Artifact
	Token   *Artifact
}

// artifactJSON covers both Foundry ({"bytecode": {"object": "0x.."}}) and
// Hardhat ({"bytecode": "0x.."}) layouts.
type artifactJSON struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode json.RawMessage `json:"bytecode"`
}

// ParseArtifact decodes a compiled contract artifact.
func ParseArtifact(name string, data []byte) (*Artifact, error) {
	var raw artifactJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse artifact %s: %w", name, err)
	}
	if len(raw.ABI) == 0 {
		return nil, fmt.Errorf("parse artifact %s: missing abi", name)
	}
	parsed, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, fmt.Errorf("parse artifact %s abi: %w", name, err)
	}

	code, err := decodeBytecode(raw.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("parse artifact %s bytecode: %w", name, err)
	}

	return &Artifact{Name: name, ABI: parsed, Bytecode: code}, nil
}

func decodeBytecode(raw json.RawMessage) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var hexCode string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &hexCode); err != nil {
			return nil, err
		}
	} else {
		var obj struct {
			Object string `json:"object"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, err
		}
		hexCode = obj.Object
	}

	if hexCode == "" || hexCode == "0x" {
		return nil, nil
	}
	if len(hexCode) < 2 || hexCode[:2] != "0x" {
		hexCode = "0x" + hexCode
	}
	return hexutil.Decode(hexCode)
}

// LoadArtifact reads and parses the artifact at path.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return ParseArtifact(filepath.Base(path), data)
}

// LoadArtifacts reads Account.json and ERC20.json from dir.
func LoadArtifacts(dir string) (Artifacts, error) {
	account, err := LoadArtifact(filepath.Join(dir, AccountArtifactFile))
	if err != nil {
		return Artifacts{}, err
	}
	token, err := LoadArtifact(filepath.Join(dir, TokenArtifactFile))
	if err != nil {
		return Artifacts{}, err
	}
	return Artifacts{Account: account, Token: token}, nil
}

// Deployable reports ErrNoBytecode for ABI-only artifacts.
func (a *Artifact) Deployable() error {
	if len(a.Bytecode) == 0 {
		return fmt.Errorf("%s: %w", a.Name, ErrNoBytecode)
	}
	return nil
}

// InitCode returns the creation bytecode followed by the packed constructor
// arguments.
func (a *Artifact) InitCode(args ...any) ([]byte, error) {
	if err := a.Deployable(); err != nil {
		return nil, err
	}
	packed, err := PackConstructor(a.ABI, args...)
	if err != nil {
		return nil, err
	}
	code := make([]byte, 0, len(a.Bytecode)+len(packed))
	code = append(code, a.Bytecode...)
	return append(code, packed...), nil
}
