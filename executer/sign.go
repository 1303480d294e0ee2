package executer

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/clearsign"
)

// SignSidecar clearsigns sidecarBytes with cfg's configured armored private
// key and writes the result to sidecarPath+".asc". A profile with no
// signing key configured is not an error: signing is simply skipped.
// Signing failure with a key present is always fatal.
func SignSidecar(cfg *Config, sidecarPath string, sidecarBytes []byte) error {
	if cfg.SigningKey == "" {
		return nil
	}
	signed, err := clearsignBytes(sidecarBytes, cfg.SigningKey)
	if err != nil {
		return fmt.Errorf("signing %s: %w", sidecarPath, err)
	}
	if err := os.WriteFile(sidecarPath+".asc", signed, 0o644); err != nil {
		return fmt.Errorf("writing signature for %s: %w", sidecarPath, err)
	}
	return nil
}

func clearsignBytes(input []byte, armoredKey string) ([]byte, error) {
	entities, err := openpgp.ReadArmoredKeyRing(strings.NewReader(armoredKey))
	if err != nil {
		return nil, err
	}
	var signer *openpgp.Entity
	for _, e := range entities {
		if e.PrivateKey != nil {
			signer = e
			break
		}
	}
	if signer == nil {
		return nil, fmt.Errorf("no private key in configured signing key")
	}

	var out bytes.Buffer
	w, err := clearsign.Encode(&out, signer.PrivateKey, nil)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(input); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
