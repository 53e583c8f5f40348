package transform

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/tdewolff/minify/v2"
	"go.trai.ch/press/internal/adapters/fs"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/zerr"
)

const svgNamespace = "http://www.w3.org/2000/svg"

// symbolAttrs are the root attributes carried over from an icon to its symbol.
var symbolAttrs = []string{"viewBox", "preserveAspectRatio"}

// SpriteIcon is one SVG document stored in a sprite.
type SpriteIcon struct {
	// ID becomes the symbol id; it is the icon's file name without extension.
	ID  string
	SVG []byte
}

// Sprite minifies SVG icons and stores them as symbols of a single inline SVG.
type Sprite struct {
	resolver ports.InputResolver
	minifier *minify.M
}

// NewSprite creates a Sprite transformer.
func NewSprite(resolver ports.InputResolver) *Sprite {
	return &Sprite{resolver: resolver, minifier: newSVGMinifier()}
}

// Transform writes Target into the output directory. No icon is a no-op.
func (s *Sprite) Transform(_ context.Context, root string, step *domain.Step, log io.Writer) error {
	matches, err := resolve(s.resolver, root, step)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return nil
	}

	icons := make([]SpriteIcon, 0, len(matches))
	for _, m := range matches {
		data, err := fs.ReadFile(m.Path)
		if err != nil {
			return err
		}
		minified, err := MinifySVG(s.minifier, data)
		if err != nil {
			return zerr.With(err, "path", m.Path)
		}
		icons = append(icons, SpriteIcon{
			ID:  strings.TrimSuffix(path.Base(m.Rel), path.Ext(m.Rel)),
			SVG: minified,
		})
	}

	sprite, err := BuildSprite(icons)
	if err != nil {
		return err
	}

	dst, err := destination(root, outputDir(root, step), step.Options.Target)
	if err != nil {
		return err
	}
	if err := fs.WriteFile(dst, sprite); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(log, "wrote %s (%d symbols)\n", relTo(root, dst), len(icons))
	return nil
}

// BuildSprite stores icons, in order, as <symbol> elements of one <svg>.
// Each symbol keeps the icon's viewBox and its children verbatim.
func BuildSprite(icons []SpriteIcon) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(`<svg xmlns="` + svgNamespace + `" xmlns:xlink="http://www.w3.org/1999/xlink">`)

	seen := make(map[string]bool, len(icons))
	for _, icon := range icons {
		if seen[icon.ID] {
			return nil, zerr.With(zerr.Wrap(errors.New("duplicate symbol id"), domain.ErrTransformFailed.Error()), "id", icon.ID)
		}
		seen[icon.ID] = true

		attrs, inner, err := parseSVGRoot(icon.SVG)
		if err != nil {
			return nil, zerr.With(transformError(err, "svgstore", ""), "id", icon.ID)
		}

		b.WriteString(`<symbol id="`)
		writeAttr(&b, icon.ID)
		b.WriteByte('"')
		for _, name := range symbolAttrs {
			if v, ok := attrs[name]; ok {
				b.WriteString(" " + name + `="`)
				writeAttr(&b, v)
				b.WriteByte('"')
			}
		}
		b.WriteByte('>')
		b.Write(inner)
		b.WriteString("</symbol>")
	}

	b.WriteString("</svg>")
	return b.Bytes(), nil
}

// parseSVGRoot returns the attributes of the root <svg> element and its raw content.
func parseSVGRoot(data []byte) (map[string]string, []byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false

	var (
		attrs map[string]string
		start int64
		depth int
	)
	for {
		offset := dec.InputOffset()
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, nil, errors.New("missing <svg> root element")
		}
		if err != nil {
			return nil, nil, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if attrs == nil {
				if el.Name.Local != "svg" {
					return nil, nil, fmt.Errorf("root element is <%s>, want <svg>", el.Name.Local)
				}
				attrs = make(map[string]string, len(el.Attr))
				for _, a := range el.Attr {
					if a.Name.Space == "" {
						attrs[a.Name.Local] = a.Value
					}
				}
				start = dec.InputOffset()
				continue
			}
			depth++
		case xml.EndElement:
			if attrs == nil {
				continue
			}
			if depth == 0 {
				return attrs, bytes.TrimSpace(data[start:offset]), nil
			}
			depth--
		}
	}
}

func writeAttr(b *bytes.Buffer, v string) {
	_ = xml.EscapeText(b, []byte(v))
}
