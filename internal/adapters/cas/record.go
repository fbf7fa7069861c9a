package cas

import (
	"bytes"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

const (
	recordVersion = 1
	recordSize    = 4 + 1 + 8 + 8 + 8
)

var recordMagic = []byte("SHCR")

// hashRecord is the content of a .hash file: the source hash an artifact was
// compiled from, plus the artifact's length and digest so a torn artifact
// write is detected.
type hashRecord struct {
	sourceHash     uint64
	artifactLen    uint64
	artifactDigest uint64
}

func newHashRecord(sourceHash uint64, artifact []byte) hashRecord {
	return hashRecord{
		sourceHash:     sourceHash,
		artifactLen:    uint64(len(artifact)),
		artifactDigest: xxhash.Sum64(artifact),
	}
}

func (r hashRecord) marshal() []byte {
	buf := make([]byte, 0, recordSize)
	buf = append(buf, recordMagic...)
	buf = append(buf, recordVersion)
	buf = binary.LittleEndian.AppendUint64(buf, r.sourceHash)
	buf = binary.LittleEndian.AppendUint64(buf, r.artifactLen)
	buf = binary.LittleEndian.AppendUint64(buf, r.artifactDigest)
	return buf
}

func unmarshalHashRecord(data []byte) (hashRecord, bool) {
	if len(data) != recordSize || !bytes.Equal(data[:4], recordMagic) || data[4] != recordVersion {
		return hashRecord{}, false
	}
	return hashRecord{
		sourceHash:     binary.LittleEndian.Uint64(data[5:13]),
		artifactLen:    binary.LittleEndian.Uint64(data[13:21]),
		artifactDigest: binary.LittleEndian.Uint64(data[21:29]),
	}, true
}

// matches reports whether artifact is the one the record was written for.
func (r hashRecord) matches(artifact []byte) bool {
	return uint64(len(artifact)) == r.artifactLen && xxhash.Sum64(artifact) == r.artifactDigest
}
