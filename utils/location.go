// Remote location identifiers and deterministic location hashing
package utils

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// LaneID identifies the point-to-point message lane between two bridged
// chains. Four bytes, matching the bridge message lane identifier width.
type LaneID [4]byte

// NewLaneID builds a LaneID from its four bytes.
func NewLaneID(a, b, c, d byte) LaneID {
	return LaneID{a, b, c, d}
}

func (l LaneID) String() string {
	return common.Bytes2Hex(l[:])
}

// RemoteLocation identifies the other endpoint of a message exchange
// relationship: a sibling system or a cross-network peer.
type RemoteLocation struct {
	Version uint32 // location format version
	Network string // consensus network the location belongs to
	Path    string // interior path within that network
}

// Encode returns a deterministic byte encoding of the versioned location.
// Fields are length-prefixed so distinct locations never collide.
func (loc RemoteLocation) Encode() []byte {
	buf := make([]byte, 0, 4+8+len(loc.Network)+len(loc.Path))
	buf = binary.BigEndian.AppendUint32(buf, loc.Version)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(loc.Network)))
	buf = append(buf, loc.Network...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(loc.Path)))
	buf = append(buf, loc.Path...)
	return buf
}

// Hash returns the fixed-width digest of the versioned location, used as
// the suspension-set key.
func (loc RemoteLocation) Hash() common.Hash {
	return crypto.Keccak256Hash(loc.Encode())
}

// Equal reports whether two locations are the same endpoint.
func (loc RemoteLocation) Equal(other RemoteLocation) bool {
	return loc == other
}
