package security

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/go-zeromq/zmq4"
	"golang.org/x/crypto/nacl/box"
)

const nonceLength = 24

// ErrOpenFailed is returned by Recv when a sealed frame fails authentication.
var ErrOpenFailed = errors.New("sealed frame failed authentication")

// sealedSocket seals every frame after the first empty delimiter on send and opens them on receive.
// Identity frames before the delimiter stay in clear text so router sockets can address peers.
// A message without a delimiter is sent and received unchanged.
type sealedSocket struct {
	zmq4.Socket
	key *[32]byte
}

func (s *sealedSocket) Send(msg zmq4.Msg) error {
	sealed, err := s.seal(msg)
	if err != nil {
		return err
	}
	return s.Socket.Send(sealed)
}

func (s *sealedSocket) SendMulti(msg zmq4.Msg) error {
	sealed, err := s.seal(msg)
	if err != nil {
		return err
	}
	return s.Socket.SendMulti(sealed)
}

func (s *sealedSocket) Recv() (zmq4.Msg, error) {
	msg, err := s.Socket.Recv()
	if err != nil {
		return msg, err
	}
	return s.open(msg)
}

func (s *sealedSocket) seal(msg zmq4.Msg) (zmq4.Msg, error) {
	start := bodyStart(msg.Frames)
	if start < 0 {
		return msg, nil
	}
	frames := make([][]byte, len(msg.Frames))
	copy(frames, msg.Frames[:start])
	for i := start; i < len(msg.Frames); i++ {
		var nonce [nonceLength]byte
		if _, err := rand.Read(nonce[:]); err != nil {
			return zmq4.Msg{}, fmt.Errorf("seal frame: %w", err)
		}
		frames[i] = box.SealAfterPrecomputation(nonce[:], msg.Frames[i], &nonce, s.key)
	}
	return zmq4.NewMsgFrom(frames...), nil
}

func (s *sealedSocket) open(msg zmq4.Msg) (zmq4.Msg, error) {
	start := bodyStart(msg.Frames)
	if start < 0 {
		return msg, nil
	}
	frames := make([][]byte, len(msg.Frames))
	copy(frames, msg.Frames[:start])
	for i := start; i < len(msg.Frames); i++ {
		frame := msg.Frames[i]
		if len(frame) < nonceLength+box.Overhead {
			return zmq4.Msg{}, ErrOpenFailed
		}
		var nonce [nonceLength]byte
		copy(nonce[:], frame[:nonceLength])
		plain, ok := box.OpenAfterPrecomputation(nil, frame[nonceLength:], &nonce, s.key)
		if !ok {
			return zmq4.Msg{}, ErrOpenFailed
		}
		if plain == nil {
			plain = []byte{}
		}
		frames[i] = plain
	}
	return zmq4.NewMsgFrom(frames...), nil
}

// bodyStart returns the index of the first frame after the first empty frame, or -1.
func bodyStart(frames [][]byte) int {
	for i, f := range frames {
		if len(f) == 0 {
			return i + 1
		}
	}
	return -1
}
