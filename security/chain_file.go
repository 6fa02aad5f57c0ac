package security

import (
	"encoding/base64"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// chainFile is the YAML key-chain format:
//
//	server:
//	  public: <base64 32 bytes>
//	  secret: <base64 32 bytes>
//	client:
//	  public: <base64 32 bytes>
//	  secret: <base64 32 bytes>
type chainFile struct {
	Server keyPairFile `yaml:"server"`
	Client keyPairFile `yaml:"client"`
}

type keyPairFile struct {
	Public string `yaml:"public"`
	Secret string `yaml:"secret"`
}

// LoadChainFile reads server and client key pairs from a YAML key-chain file.
//
// Returns: (server, client, nil); error when the file is missing, not valid YAML or a key is not 32 bytes
// of base64.
func LoadChainFile(path string) (KeyPair, KeyPair, error) {
	if path == "" {
		return KeyPair{}, KeyPair{}, fmt.Errorf("security chain file: path is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return KeyPair{}, KeyPair{}, fmt.Errorf("security chain file: %w", err)
	}
	var f chainFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return KeyPair{}, KeyPair{}, fmt.Errorf("security chain file %s: %w", path, err)
	}
	server, err := f.Server.decode("server")
	if err != nil {
		return KeyPair{}, KeyPair{}, err
	}
	client, err := f.Client.decode("client")
	if err != nil {
		return KeyPair{}, KeyPair{}, err
	}
	return server, client, nil
}

// MarshalChainFile renders key pairs in the format LoadChainFile reads.
func MarshalChainFile(server, client KeyPair) ([]byte, error) {
	return yaml.Marshal(chainFile{Server: encodeKeyPair(server), Client: encodeKeyPair(client)})
}

func encodeKeyPair(kp KeyPair) keyPairFile {
	return keyPairFile{
		Public: base64.StdEncoding.EncodeToString(kp.Public[:]),
		Secret: base64.StdEncoding.EncodeToString(kp.Secret[:]),
	}
}

func (k keyPairFile) decode(side string) (KeyPair, error) {
	pub, err := decodeKey(k.Public)
	if err != nil {
		return KeyPair{}, fmt.Errorf("security chain file: %s.public: %w", side, err)
	}
	sec, err := decodeKey(k.Secret)
	if err != nil {
		return KeyPair{}, fmt.Errorf("security chain file: %s.secret: %w", side, err)
	}
	return KeyPair{Public: pub, Secret: sec}, nil
}

func decodeKey(s string) (*[32]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("key must be 32 bytes, got %d", len(b))
	}
	var out [32]byte
	copy(out[:], b)
	return &out, nil
}
