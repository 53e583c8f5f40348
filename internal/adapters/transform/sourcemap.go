package transform

import (
	"bytes"
	"encoding/base64"
	"errors"
	iofs "io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.trai.ch/press/internal/adapters/fs"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/zerr"
)

// embeddedMap matches the data-URI source map comment sass appends to compressed output.
var embeddedMap = regexp.MustCompile(`/\*# sourceMappingURL=data:([^,]*),(\S+?)\s*\*/`)

// retargetSourceMaps points the maps written for css at entry instead of the
// compiled stand-in file, which no longer exists once the step finishes.
func retargetSourceMaps(css, compiled, entry string) error {
	if compiled == entry {
		return nil
	}
	source, err := filepath.Rel(filepath.Dir(css), entry)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFailedToResolveRelativePath.Error()), "path", entry)
	}
	source = filepath.ToSlash(source)
	from := filepath.Base(compiled)

	if err := retargetMapFile(css+".map", from, source); err != nil {
		return err
	}
	return retargetEmbeddedMap(css, from, source)
}

func retargetMapFile(mapPath, from, to string) error {
	data, err := os.ReadFile(mapPath) //nolint:gosec // Path is derived from the step output
	if errors.Is(err, iofs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return domain.Fatal(zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", mapPath))
	}
	out, changed, err := RetargetSources(data, from, to)
	if err != nil || !changed {
		return err
	}
	return fs.WriteFile(mapPath, out)
}

func retargetEmbeddedMap(cssPath, from, to string) error {
	css, err := fs.ReadFile(cssPath)
	if err != nil {
		return err
	}
	loc := embeddedMap.FindSubmatchIndex(css)
	if loc == nil {
		return nil
	}

	params, payload := string(css[loc[2]:loc[3]]), string(css[loc[4]:loc[5]])
	var data []byte
	if strings.HasSuffix(params, ";base64") {
		data, err = base64.StdEncoding.DecodeString(payload)
	} else {
		var s string
		s, err = url.PathUnescape(payload)
		data = []byte(s)
	}
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrTransformFailed.Error()), "path", cssPath)
	}

	out, changed, err := RetargetSources(data, from, to)
	if err != nil || !changed {
		return err
	}

	comment := "/*# sourceMappingURL=data:application/json;charset=utf-8;base64," +
		base64.StdEncoding.EncodeToString(out) + " */"
	var b bytes.Buffer
	b.Write(css[:loc[0]])
	b.WriteString(comment)
	b.Write(css[loc[1]:])
	return fs.WriteFile(cssPath, b.Bytes())
}

// RetargetSources replaces every entry of the map's sources whose file name is from
// with to. The remaining fields are left untouched.
func RetargetSources(data []byte, from, to string) ([]byte, bool, error) {
	sources := gjson.GetBytes(data, "sources")
	if !sources.IsArray() {
		return data, false, nil
	}

	changed := false
	for i, src := range sources.Array() {
		if path.Base(strings.TrimPrefix(src.String(), "file://")) != from {
			continue
		}
		var err error
		data, err = sjson.SetBytes(data, "sources."+strconv.Itoa(i), to)
		if err != nil {
			return nil, false, zerr.Wrap(err, domain.ErrTransformFailed.Error())
		}
		changed = true
	}
	return data, changed, nil
}
