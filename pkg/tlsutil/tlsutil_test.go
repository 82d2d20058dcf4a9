package tlsutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServerTLSConfig_MissingFiles(t *testing.T) {
	dir := t.TempDir()

	_, err := ServerTLSConfig(filepath.Join(dir, "server.pem"), filepath.Join(dir, "server-key.pem"))
	assert.ErrorContains(t, err, "tlsutil: load server key pair")
}
