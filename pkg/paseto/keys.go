package pasetotoken

import (
	"strings"

	paseto "aidanwoods.dev/go-paseto"
)

type Mode string

const (
	ModeLocal  Mode = "local"  // v4.local, symmetric encryption
	ModePublic Mode = "public" // v4.public, Ed25519 signatures
)

// Keys holds whichever key material the mode needs. In public mode a
// verify-only deployment may carry just the public key.
type Keys struct {
	Mode Mode

	Symmetric *paseto.V4SymmetricKey

	Secret *paseto.V4AsymmetricSecretKey
	Public *paseto.V4AsymmetricPublicKey
}

// KeyMaterial is the hex-encoded form keys take in the config file.
type KeyMaterial struct {
	Mode Mode

	SymmetricHex string
	SecretHex    string
	PublicHex    string
}

// LoadKeys decodes config-supplied hex into usable keys. In public mode the
// public key is derived from the secret when only the secret is given.
func LoadKeys(in KeyMaterial) (Keys, error) {
	switch in.Mode {
	case ModeLocal:
		h := strings.TrimSpace(in.SymmetricHex)
		if h == "" {
			return Keys{}, ErrConfig{Msg: "local mode requires a symmetric key"}
		}
		k, err := paseto.V4SymmetricKeyFromHex(h)
		if err != nil {
			return Keys{}, ErrConfig{Msg: "invalid symmetric key hex: " + err.Error()}
		}
		return Keys{Mode: ModeLocal, Symmetric: &k}, nil

	case ModePublic:
		out := Keys{Mode: ModePublic}

		if h := strings.TrimSpace(in.SecretHex); h != "" {
			sk, err := paseto.NewV4AsymmetricSecretKeyFromHex(h)
			if err != nil {
				return Keys{}, ErrConfig{Msg: "invalid secret key hex: " + err.Error()}
			}
			pk := sk.Public()
			out.Secret = &sk
			out.Public = &pk
		}
		if h := strings.TrimSpace(in.PublicHex); h != "" {
			pk, err := paseto.NewV4AsymmetricPublicKeyFromHex(h)
			if err != nil {
				return Keys{}, ErrConfig{Msg: "invalid public key hex: " + err.Error()}
			}
			out.Public = &pk
		}

		if out.Secret == nil && out.Public == nil {
			return Keys{}, ErrConfig{Msg: "public mode requires a secret and/or public key"}
		}
		return out, nil

	default:
		return Keys{}, ErrConfig{Msg: "mode must be local or public"}
	}
}

// NewLocalKeys generates a fresh symmetric key. Test fixtures only; real
// deployments load keys from config so tokens survive restarts.
func NewLocalKeys() Keys {
	k := paseto.NewV4SymmetricKey()
	return Keys{Mode: ModeLocal, Symmetric: &k}
}
