package credentials

import (
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"strings"

	"github.com/cockroachdb/errors"
)

// Fixed key names shared by every credential source. Case-sensitive, no aliasing.
const (
	KeyServiceAccountEmail = "GOOGLE_SERVICE_ACCOUNT_EMAIL"
	KeyProjectID           = "GOOGLE_PROJECT_ID"
	KeyPrivateKeyID        = "GOOGLE_PRIVATE_KEY_ID"
	KeyPrivateKey          = "GOOGLE_PRIVATE_KEY"
	KeyClientID            = "GOOGLE_CLIENT_ID"
)

// Keys lists every name a source is asked for.
var Keys = []string{
	KeyServiceAccountEmail,
	KeyProjectID,
	KeyPrivateKeyID,
	KeyPrivateKey,
	KeyClientID,
}

const (
	serviceAccountType      = "service_account"
	authURI                 = "https://accounts.google.com/o/oauth2/auth"
	tokenURI                = "https://oauth2.googleapis.com/token"
	authProviderX509CertURL = "https://www.googleapis.com/oauth2/v1/certs"
	clientCertURLPrefix     = "https://www.googleapis.com/robot/v1/metadata/x509/"
)

var (
	ErrCredentialMissing   = errors.New("credentials missing")
	ErrCredentialMalformed = errors.New("credentials malformed")
)

// Bundle is a service account key in the shape of the JSON key file Google issues.
type Bundle struct {
	Type                    string `json:"type"`
	ProjectID               string `json:"project_id"`
	PrivateKeyID            string `json:"private_key_id"`
	PrivateKey              string `json:"private_key"`
	ClientEmail             string `json:"client_email"`
	ClientID                string `json:"client_id"`
	AuthURI                 string `json:"auth_uri"`
	TokenURI                string `json:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url"`
}

// NewBundle builds a bundle from raw source values. Escaped "\n" sequences in
// the private key are turned into real newlines.
func NewBundle(values Values) Bundle {
	email := values[KeyServiceAccountEmail]
	return Bundle{
		Type:                    serviceAccountType,
		ProjectID:               values[KeyProjectID],
		PrivateKeyID:            values[KeyPrivateKeyID],
		PrivateKey:              strings.ReplaceAll(values[KeyPrivateKey], `\n`, "\n"),
		ClientEmail:             email,
		ClientID:                values[KeyClientID],
		AuthURI:                 authURI,
		TokenURI:                tokenURI,
		AuthProviderX509CertURL: authProviderX509CertURL,
		ClientX509CertURL:       clientCertURLPrefix + email,
	}
}

// Validate checks the two mandatory fields and that the private key parses.
func (b Bundle) Validate() error {
	if b.ClientEmail == "" {
		return errors.Wrap(ErrCredentialMissing, "service account email is empty")
	}
	if strings.TrimSpace(b.PrivateKey) == "" {
		return errors.Wrap(ErrCredentialMalformed, "private key is empty")
	}
	block, _ := pem.Decode([]byte(b.PrivateKey))
	if block == nil {
		return errors.Wrap(ErrCredentialMalformed, "private key is not PEM encoded")
	}
	if _, err := x509.ParsePKCS8PrivateKey(block.Bytes); err != nil {
		if _, err1 := x509.ParsePKCS1PrivateKey(block.Bytes); err1 != nil {
			return errors.Mark(errors.Wrap(err, "parsing private key"), ErrCredentialMalformed)
		}
	}
	return nil
}

// JSON renders the bundle as a service account key file.
func (b Bundle) JSON() ([]byte, error) {
	return json.Marshal(b)
}
