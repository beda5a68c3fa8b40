package source

import (
	"strings"

	"github.com/google/uuid"
)

// JobID builds "{sourceID}-{nativeID}". Postings without a native id get a
// name-based UUID over title and company, so refetching the same posting
// yields the same id.
func JobID(sourceID, nativeID, title, company string) string {
	nativeID = strings.TrimSpace(nativeID)
	if nativeID == "" {
		nativeID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(title+"\x00"+company)).String()
	}
	return sourceID + "-" + nativeID
}
