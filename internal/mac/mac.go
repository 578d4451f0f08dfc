// Package mac inspects decoded payload octets as 802.11 MPDUs: frame
// control and addressing, the trailing frame check sequence, and the
// SSID of management frames that carry one.
package mac

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// fcsLen is the length of the trailing frame check sequence.
const fcsLen = 4

// Summary is the digest of one inspected MPDU.
type Summary struct {
	Type     string
	Addr1    string
	Addr2    string
	Addr3    string
	Sequence uint16
	SSID     string
	FCSValid bool
}

// Summarize parses psdu as an 802.11 MPDU with a trailing frame check
// sequence and returns its digest. Frames too short to carry a header
// and FCS are rejected.
func Summarize(psdu []byte) (Summary, error) {
	if len(psdu) < 10+fcsLen {
		return Summary{}, fmt.Errorf("mac: %d octets is too short for an mpdu", len(psdu))
	}

	pkt := gopacket.NewPacket(psdu, layers.LayerTypeDot11, gopacket.NoCopy)
	layer := pkt.Layer(layers.LayerTypeDot11)
	dot11, ok := layer.(*layers.Dot11)
	if !ok {
		return Summary{}, fmt.Errorf("mac: not an 802.11 frame")
	}

	s := Summary{
		Type:     dot11.Type.String(),
		Addr1:    dot11.Address1.String(),
		Addr2:    dot11.Address2.String(),
		Addr3:    dot11.Address3.String(),
		Sequence: dot11.SequenceNumber,
		FCSValid: dot11.ChecksumValid(),
	}
	for _, l := range pkt.Layers() {
		ie, ok := l.(*layers.Dot11InformationElement)
		if !ok || ie.ID != layers.Dot11InformationElementIDSSID {
			continue
		}
		s.SSID = string(ie.Info)
		break
	}
	return s, nil
}

// Beacon builds a management beacon MPDU carrying ssid, with the frame
// check sequence appended. Useful as a realistic payload for generated
// packets.
func Beacon(src, bssid string, ssid string, seq uint16) ([]byte, error) {
	srcAddr, err := net.ParseMAC(src)
	if err != nil {
		return nil, fmt.Errorf("mac: source address: %w", err)
	}
	bssidAddr, err := net.ParseMAC(bssid)
	if err != nil {
		return nil, fmt.Errorf("mac: bssid: %w", err)
	}

	frame := make([]byte, 0, 24+12+2+len(ssid)+fcsLen)

	// Frame control: management / beacon, followed by duration, the
	// three addresses and the sequence control field.
	frame = append(frame, 0x80, 0x00, 0x00, 0x00)
	frame = append(frame, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff)
	frame = append(frame, srcAddr...)
	frame = append(frame, bssidAddr...)
	frame = binary.LittleEndian.AppendUint16(frame, seq<<4)

	// Beacon body: timestamp, interval, capabilities, SSID element.
	frame = append(frame, make([]byte, 8)...)
	frame = binary.LittleEndian.AppendUint16(frame, 100)
	frame = binary.LittleEndian.AppendUint16(frame, 0x0421)
	frame = append(frame, 0x00, byte(len(ssid)))
	frame = append(frame, ssid...)

	frame = binary.LittleEndian.AppendUint32(frame, crc32.ChecksumIEEE(frame))
	return frame, nil
}
