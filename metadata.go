package docseal

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Metadata is stored as a flat tag-length-value sequence inside the
// container's length-prefixed block: tag (1 byte), value length (uint16 LE),
// value bytes. Field order is fixed so identical metadata always encodes to
// identical bytes.

const (
	tagFilename = 0x01
	tagMIMEType = 0x02
	tagSize     = 0x03 // value is always 8 bytes, uint64 LE
)

// marshalMetadata encodes metadata into its TLV form. A nil metadata
// encodes as an empty block.
func marshalMetadata(m *FileMetadata) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	if len(m.Filename) > math.MaxUint16 {
		return nil, NewWeakInputError("metadata.filename", "filename too long to embed")
	}
	if len(m.MIMEType) > math.MaxUint16 {
		return nil, NewWeakInputError("metadata.mimetype", "MIME type too long to embed")
	}

	buf := make([]byte, 0, 3+len(m.Filename)+3+len(m.MIMEType)+3+8)
	buf = appendTLV(buf, tagFilename, []byte(m.Filename))
	buf = appendTLV(buf, tagMIMEType, []byte(m.MIMEType))
	var size [8]byte
	binary.LittleEndian.PutUint64(size[:], m.Size)
	buf = appendTLV(buf, tagSize, size[:])
	return buf, nil
}

func appendTLV(buf []byte, tag byte, value []byte) []byte {
	buf = append(buf, tag)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(value)))
	return append(buf, value...)
}

// unmarshalMetadata parses a TLV block. It must consume the block exactly;
// trailing garbage, short entries and unknown tags are all structural
// violations.
func unmarshalMetadata(b []byte) (*FileMetadata, error) {
	if len(b) == 0 {
		return nil, nil
	}

	m := &FileMetadata{}
	for len(b) > 0 {
		if len(b) < 3 {
			return nil, NewMalformedContainerError("truncated metadata entry", nil)
		}
		tag := b[0]
		valueLen := int(binary.LittleEndian.Uint16(b[1:3]))
		b = b[3:]
		if valueLen > len(b) {
			return nil, NewMalformedContainerError("metadata entry overruns block", nil)
		}
		value := b[:valueLen]
		b = b[valueLen:]

		switch tag {
		case tagFilename:
			m.Filename = string(value)
		case tagMIMEType:
			m.MIMEType = string(value)
		case tagSize:
			if valueLen != 8 {
				return nil, NewMalformedContainerError("metadata size entry must be 8 bytes", nil)
			}
			m.Size = binary.LittleEndian.Uint64(value)
		default:
			return nil, NewMalformedContainerError(fmt.Sprintf("unknown metadata tag 0x%02x", tag), nil)
		}
	}
	return m, nil
}
