package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/theoria/core"
)

// Key prefixes for different data types
const (
	caseRecordPrefix = "casrec"
	caseTheoryPrefix = "castheo"
	caseCodePrefix   = "cascode"
)

// makeCaseRecordKey generates a key for a case record by ID.
func makeCaseRecordKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", caseRecordPrefix, id))
}

// makeCaseTheoryKey generates a composite key for the theory-name index.
// Format: prefix:name\x00recordID
// The NUL separator cannot occur in a theory label, so a partial key for a
// name never collides with the index entries of a longer name.
func makeCaseTheoryKey(name string, id core.ID) []byte {
	prefix := caseTheoryPrefix + ":"
	totalSize := len(prefix) + len(name) + 1 + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, prefix)
	offset += copy(buf[offset:], name)
	buf[offset] = 0
	offset++
	// BigEndian so lexicographic sort matches numeric order
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialCaseTheoryKey generates a partial key for scanning every case
// recorded under a theory label.
func makePartialCaseTheoryKey(name string) []byte {
	prefix := caseTheoryPrefix + ":"
	buf := make([]byte, len(prefix)+len(name)+1)
	offset := copy(buf, prefix)
	offset += copy(buf[offset:], name)
	buf[offset] = 0
	return buf
}

// theoryNameFromKey extracts the theory label from a theory index key.
func theoryNameFromKey(key []byte) (string, bool) {
	prefix := caseTheoryPrefix + ":"
	if len(key) < len(prefix)+1+8 {
		return "", false
	}
	body := key[len(prefix) : len(key)-8]
	if len(body) == 0 || body[len(body)-1] != 0 {
		return "", false
	}
	return string(body[:len(body)-1]), true
}

// makeCaseCodeKey generates a key for case lookup by code.
func makeCaseCodeKey(code string) []byte {
	return []byte(fmt.Sprintf("%s:%s", caseCodePrefix, code))
}
