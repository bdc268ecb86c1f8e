package dictionary

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"sync"
)

// Resolver locates the raw bytes of a named dictionary resource (e.g.
// by searching an embedded FS, a search path, or a fixed install
// directory). The default resolver looks for "<name>.dic" and
// "<name>.dic.gz" next to the working directory; hosts that ship
// their own dictionaries register a Resolver via SetResolver.
type Resolver func(name string) (io.ReadCloser, error)

var (
	factoryMu    sync.Mutex
	factoryCache = make(map[string]*Dictionary)
	resolver     Resolver = defaultResolver
)

// SetResolver installs the function used to locate dictionary
// resources by logical name. Safe to call before the first Get.
func SetResolver(r Resolver) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	resolver = r
}

// Get returns the Dictionary registered under name, loading and
// caching it on first request. Subsequent calls for the same name
// return the cached instance; the cache and the underlying resolver
// are both guarded by a single mutex, matching the process-lifetime
// singleton contract dictionaries are expected to satisfy.
func Get(name string) (*Dictionary, error) {
	factoryMu.Lock()
	defer factoryMu.Unlock()

	if d, ok := factoryCache[name]; ok {
		return d, nil
	}

	rc, err := resolver(name)
	if err != nil {
		return nil, &Error{Kind: ErrKindNotFound, Msg: fmt.Sprintf("dictionary %q", name), Err: err}
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, loadf("reading dictionary %q: %v", name, err)
	}
	if isGzip(raw) {
		raw, err = gunzip(raw)
		if err != nil {
			return nil, loadf("gunzip dictionary %q: %v", name, err)
		}
	}

	d, err := Load(name, raw)
	if err != nil {
		return nil, err
	}
	factoryCache[name] = d
	return d, nil
}

// isGzip sniffs the gzip magic bytes, independent of any filename
// extension, so a resolver that returns pre-compressed bytes under a
// plain ".dic" name still decompresses correctly.
func isGzip(b []byte) bool {
	return len(b) >= 2 && b[0] == 0x1f && b[1] == 0x8b
}

func gunzip(raw []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// defaultResolver looks for "<name>.dic" then "<name>.dic.gz" in the
// current directory.
func defaultResolver(name string) (io.ReadCloser, error) {
	for _, candidate := range []string{name + ".dic", name + ".dic.gz"} {
		if f, err := os.Open(candidate); err == nil {
			return f, nil
		}
	}
	return nil, os.ErrNotExist
}
