package editor

import (
	"encoding/base64"
	"fmt"
	"net/http"
)

// EncodeDataURI re-encodes raw file bytes as a self-contained inline
// data URI, the representation image blocks and cover images store
// instead of a reference into external object storage. The MIME type is
// sniffed from the content.
func EncodeDataURI(data []byte) string {
	mime := http.DetectContentType(data)
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))
}
