package runner

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/yobol/go-micrortu/arena"
	"github.com/yobol/go-micrortu/binding"
)

/*
The shared image is what a block sees at the address of its SHARED global:

	| params len [4B] | ports len [4B] | dirty params [8B] | dirty ports [8B] | control period ms [8B] |
	| params region, padded to 8 | ports region |

Regions use the binding header layout. Integers are little endian.
*/
const (
	imageHeaderSize = 32
	imageAlign      = 8
)

func imageSize(params, ports int) int {
	return imageHeaderSize + (params+imageAlign-1)&^(imageAlign-1) + ports
}

func encodeImage(s *binding.Shared, period time.Duration) ([]byte, error) {
	dp, ok := s.DirtyParams.Uint64()
	if !ok {
		return nil, fmt.Errorf("%w: dirty params beyond 64 positions", ErrImage)
	}
	dq, ok := s.DirtyPorts.Uint64()
	if !ok {
		return nil, fmt.Errorf("%w: dirty ports beyond 64 positions", ErrImage)
	}
	if s.ControlPeriod > 0 {
		period = s.ControlPeriod
	}

	a := arena.New(imageSize(len(s.Params), len(s.Ports)))
	hdr := a.Alloc(imageHeaderSize, imageAlign)
	binary.LittleEndian.PutUint32(hdr[0:], uint32(len(s.Params)))
	binary.LittleEndian.PutUint32(hdr[4:], uint32(len(s.Ports)))
	binary.LittleEndian.PutUint64(hdr[8:], dp)
	binary.LittleEndian.PutUint64(hdr[16:], dq)
	binary.LittleEndian.PutUint64(hdr[24:], uint64(period.Milliseconds()))
	copy(a.Alloc(len(s.Params), imageAlign), s.Params)
	copy(a.Alloc(len(s.Ports), imageAlign), s.Ports)
	return a.Bytes(), nil
}

// decodeImage copies the regions and dirty sets of img into s. The region lengths must not have changed.
func decodeImage(img []byte, s *binding.Shared) error {
	if len(img) < imageHeaderSize {
		return fmt.Errorf("%w: %d bytes", ErrImage, len(img))
	}
	np := int(binary.LittleEndian.Uint32(img[0:]))
	nq := int(binary.LittleEndian.Uint32(img[4:]))
	if np != len(s.Params) || nq != len(s.Ports) || len(img) < imageSize(np, nq) {
		return fmt.Errorf("%w: region lengths changed to %d and %d", ErrImage, np, nq)
	}
	s.DirtyParams = *binding.DirtyFromUint64(binary.LittleEndian.Uint64(img[8:]))
	s.DirtyPorts = *binding.DirtyFromUint64(binary.LittleEndian.Uint64(img[16:]))
	copy(s.Params, img[imageHeaderSize:])
	copy(s.Ports, img[imageSize(np, 0):])
	return nil
}
