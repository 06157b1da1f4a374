// Package digest calcula MD5 y SHA-256 de un fichero en una sola pasada.
package digest

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"evidence-lens/internal/core/analysis"
)

// ChunkSize es el tamaño del buffer de lectura.
const ChunkSize = 8192

// Compute abre ref y calcula sus hashes. Cualquier fallo de apertura o
// lectura devuelve solo Error, nunca hashes parciales.
func Compute(ref analysis.FileRef) analysis.DigestResult {
	if ref == nil {
		return analysis.DigestResult{Error: "no file"}
	}
	rc, err := ref.Open()
	if err != nil {
		return analysis.DigestResult{Name: ref.Name(), Error: fmt.Sprintf("open: %v", err)}
	}
	defer rc.Close()

	res := Reader(rc)
	res.Name = ref.Name()
	return res
}

// Reader consume r en bloques de ChunkSize alimentando ambos hashes a la vez.
func Reader(r io.Reader) analysis.DigestResult {
	md5h := md5.New()
	shah := sha256.New()
	buf := make([]byte, ChunkSize)

	n, err := io.CopyBuffer(io.MultiWriter(md5h, shah), onlyReader{r}, buf)
	if err != nil {
		return analysis.DigestResult{Error: fmt.Sprintf("read: %v", err)}
	}
	return analysis.DigestResult{
		MD5:    hex.EncodeToString(md5h.Sum(nil)),
		SHA256: hex.EncodeToString(shah.Sum(nil)),
		Size:   n,
	}
}

// onlyReader oculta WriterTo/ReaderFrom para que CopyBuffer use buf.
type onlyReader struct{ io.Reader }
