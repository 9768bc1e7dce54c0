package config

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"text/template"
)

// genTemplate mirrors loadstone_config::codegen::generate_modules: it
// emits a Go source file declaring the frozen public key and bank layout
// as package-level values, so the running binary never parses the
// project file itself.
var genTemplate = template.Must(template.New("config").Parse(`// Code generated by cmd/configgen. DO NOT EDIT.

package {{.Package}}

import "github.com/tinkerator/loadstone/flash"

// PublicKeyBytes is the SEC1-encoded P-256 verification key frozen at
// build time by the project configuration.
var PublicKeyBytes = []byte{
{{- range .KeyBytes}}
	{{.}},
{{- end}}
}

// SecurityMode is the verification mode this image was built for.
const SecurityMode = {{printf "%d" .SecurityMode}}

// Banks is the frozen flash layout this image was built for.
var Banks = []flash.Bank{
{{- range .Banks}}
	{Index: {{.Index}}, Location: flash.Address({{.Location}}), Size: {{.Size}}, Bootable: {{.Bootable}}, IsGolden: {{.Golden}}},
{{- end}}
}
`))

type genData struct {
	Package      string
	KeyBytes     []string
	SecurityMode SecurityMode
	Banks        []BankConfig
}

// Generate emits a gofmt'd Go source file to w declaring pkg-level
// PublicKeyBytes, SecurityMode and Banks values frozen from cfg and key.
// cfg must already satisfy Validate (Generate does not re-validate it).
func Generate(w io.Writer, pkg string, cfg Configuration, key []byte) error {
	data := genData{
		Package:      pkg,
		SecurityMode: cfg.SecurityMode,
		Banks:        cfg.Banks,
	}
	for _, b := range key {
		data.KeyBytes = append(data.KeyBytes, fmt.Sprintf("0x%02x", b))
	}

	var buf bytes.Buffer
	if err := genTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("config: generating source: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("config: generated source does not parse: %w", err)
	}
	_, err = w.Write(formatted)
	return err
}
