// Package signer provides the provenance signing and verification
// service used to author chain headers and validate ones received from
// peers.
package signer

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ed25519"

	"github.com/entryhold/node/address"
)

var log = logrus.WithField("prefix", "signer")

// Signer verifies provenance signatures against an agent's public key
// and produces signatures for headers authored locally.
type Signer interface {
	// Verify reports whether sig is a valid signature by agentAddress
	// over payload. A Signer never returns an error from Verify: an
	// unknown agent or malformed signature is simply not valid.
	Verify(agentAddress address.Address, payload []byte, sig []byte) bool

	// Sign produces a signature over payload using the local agent's
	// keypair.
	Sign(payload []byte) (sig []byte, err error)

	// LocalAddress returns the address of the local signing agent.
	LocalAddress() address.Address
}

var errUnknownAgent = errors.New("signer: no public key registered for agent")

// Keyring is an in-memory Signer backed by Ed25519 keypairs: one local
// signing key, plus the public keys of any remote agent whose
// provenances this node needs to verify.
type Keyring struct {
	localAddress address.Address
	localPriv    ed25519.PrivateKey
	known        map[address.Address]ed25519.PublicKey
}

// NewKeyring builds a Keyring around a freshly generated local keypair.
func NewKeyring() (*Keyring, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, errors.Wrap(err, "signer: generating local keypair")
	}
	addr := address.Compute(pub)
	k := &Keyring{
		localAddress: addr,
		localPriv:    priv,
		known:        make(map[address.Address]ed25519.PublicKey),
	}
	k.known[addr] = pub
	return k, nil
}

// RegisterPublicKey makes agent's public key available to Verify. Used
// when a remote agent's provenance is about to be validated, typically
// by trusting the key embedded in the AgentID entry of their chain.
func (k *Keyring) RegisterPublicKey(agent address.Address, pub ed25519.PublicKey) {
	k.known[agent] = pub
}

func (k *Keyring) LocalAddress() address.Address {
	return k.localAddress
}

func (k *Keyring) Sign(payload []byte) ([]byte, error) {
	return ed25519.Sign(k.localPriv, payload), nil
}

func (k *Keyring) Verify(agentAddress address.Address, payload []byte, sig []byte) bool {
	pub, ok := k.known[agentAddress]
	if !ok {
		log.WithField("agent", agentAddress).Debug(errUnknownAgent)
		return false
	}
	return ed25519.Verify(pub, payload, sig)
}

// AlwaysVerify wraps a Signer so every Verify call reports true without
// consulting the underlying implementation, for test networks that run
// with provenance signature verification disabled. Sign and
// LocalAddress still delegate, since a test network still needs to
// author headers with a real signature for other nodes to carry.
type AlwaysVerify struct {
	Signer
}

// Verify unconditionally reports success.
func (AlwaysVerify) Verify(address.Address, []byte, []byte) bool {
	return true
}
