package credentials

import (
	"strings"

	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
)

// Resolver walks its sources in rank order and builds a Bundle from the first
// one that has the service account email set. Nothing is cached.
type Resolver struct {
	sources []Source
}

func NewResolver(sources ...Source) *Resolver {
	return &Resolver{sources: sources}
}

func (r *Resolver) Resolve() (Bundle, error) {
	var misses []string
	for _, src := range r.sources {
		values, err := src.Read()
		if err != nil {
			return Bundle{}, errors.Wrapf(err, "reading credentials from %s", src.Name())
		}
		if values[KeyServiceAccountEmail] == "" {
			log.Debugf("no service account email in %s", src.Name())
			misses = append(misses, "not found in "+src.Name())
			continue
		}
		log.Debugf("using credentials from %s", src.Name())
		return NewBundle(values), nil
	}
	if len(misses) == 0 {
		return Bundle{}, errors.Wrap(ErrCredentialMissing, "no credential sources configured")
	}
	return Bundle{}, errors.Wrapf(ErrCredentialMissing, "service account credentials %s", strings.Join(misses, "; "))
}
