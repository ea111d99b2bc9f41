package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/dtnma-project/ace-ari/admcatalog"
	"github.com/dtnma-project/ace-ari/ari"
	"github.com/dtnma-project/ace-ari/textcodec"
	"github.com/dtnma-project/ace-ari/transforms"
	"github.com/dtnma-project/ace-ari/typesys"
)

// jsonModule is the on-disk shape ace_adm reads/writes with -f json. YANG
// ingestion is an external collaborator's job (spec.md §1); this is the
// one module format this binary parses natively, so `-f json` exists for
// local testing and for modules produced by a pipeline that already
// speaks this module's own Go types. ARI-valued fields serialize through
// the text codec rather than a bespoke JSON encoding of ari.ARI, since
// the text grammar already is this module's canonical textual form.
type jsonModule struct {
	Org      string         `json:"org"`
	Model    string         `json:"model"`
	Revision *jsonRevision  `json:"revision,omitempty"`
	Enum     uint64         `json:"enum"`
	Objects  []*jsonObject  `json:"objects"`
}

type jsonRevision struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

type jsonFormalParam struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Default string `json:"default,omitempty"`
}

type jsonTypedef struct {
	// Kind is "builtin" or "alias"; composite type expressions (union,
	// ulist, dlist, umap, tblt, use+constraints) are not representable
	// in this CLI's JSON format and round-trip only through the
	// external YANG ingestion pipeline (DESIGN.md).
	Kind        string `json:"kind"`
	Builtin     string `json:"builtin,omitempty"`
	AliasOrg    string `json:"alias_org,omitempty"`
	AliasModel  string `json:"alias_model,omitempty"`
	AliasName   string `json:"alias_name,omitempty"`
}

type jsonObject struct {
	Type         string             `json:"type"`
	Name         string             `json:"name"`
	Enum         uint64             `json:"enum,omitempty"`
	ValueType    string             `json:"value_type,omitempty"`
	ConstValue   string             `json:"const_value,omitempty"`
	FormalParams []jsonFormalParam  `json:"formal_params,omitempty"`
	ResultType   string             `json:"result_type,omitempty"`
	Typedef      *jsonTypedef       `json:"typedef,omitempty"`
}

func loadModule(path, format string) (*admcatalog.Module, error) {
	if format != "json" {
		return nil, fmt.Errorf("ingestion format %q requires the external YANG ingestion pipeline (spec.md §1); ace_adm only reads pre-parsed -f json modules directly", format)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var jm jsonModule
	if err := json.Unmarshal(data, &jm); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return jm.toModule()
}

func printModule(m *admcatalog.Module, format string) error {
	if format != "json" {
		return fmt.Errorf("output format %q requires the external YANG emission pipeline (spec.md §1)", format)
	}
	jm, err := fromModule(m)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(jm)
}

func (jm jsonModule) toModule() (*admcatalog.Module, error) {
	m := &admcatalog.Module{
		Org:     parseID(jm.Org),
		Model:   parseID(jm.Model),
		Enum:    jm.Enum,
		Objects: map[admcatalog.ObjectKey]*admcatalog.Object{},
	}
	if jm.Revision != nil {
		m.Revision = &ari.Revision{Year: jm.Revision.Year, Month: jm.Revision.Month, Day: jm.Revision.Day}
	}
	for _, jo := range jm.Objects {
		obj, err := jo.toObject()
		if err != nil {
			return nil, fmt.Errorf("object %s/%s: %w", jo.Type, jo.Name, err)
		}
		m.Objects[admcatalog.ObjectKey{Type: obj.Type, Name: obj.Name}] = obj
	}
	return m, nil
}

func (jo *jsonObject) toObject() (*admcatalog.Object, error) {
	objType, ok := ari.ObjectTypeByName(jo.Type)
	if !ok {
		return nil, fmt.Errorf("unrecognized object type %q", jo.Type)
	}
	obj := &admcatalog.Object{Type: objType, Name: jo.Name, Enum: jo.Enum}
	if jo.ValueType != "" {
		t, err := parseTypeRef(jo.ValueType)
		if err != nil {
			return nil, err
		}
		obj.ValueType = t
	}
	if jo.ConstValue != "" {
		v, err := textcodec.Parse(jo.ConstValue)
		if err != nil {
			return nil, fmt.Errorf("const_value: %w", err)
		}
		obj.ConstValue = v
	}
	if jo.ResultType != "" {
		t, err := parseTypeRef(jo.ResultType)
		if err != nil {
			return nil, err
		}
		obj.ResultType = &t
	}
	for _, jp := range jo.FormalParams {
		t, err := parseTypeRef(jp.Type)
		if err != nil {
			return nil, fmt.Errorf("formal param %s: %w", jp.Name, err)
		}
		fp := admcatalog.FormalParam{Name: jp.Name, Type: t}
		if jp.Default != "" {
			v, err := textcodec.Parse(jp.Default)
			if err != nil {
				return nil, fmt.Errorf("formal param %s default: %w", jp.Name, err)
			}
			fp.Default = v
		}
		obj.FormalParams = append(obj.FormalParams, fp)
	}
	if jo.Typedef != nil {
		te, err := jo.Typedef.toTypeExpr()
		if err != nil {
			return nil, err
		}
		obj.Typedef = te
	}
	return obj, nil
}

func (jt *jsonTypedef) toTypeExpr() (typesys.TypeExpr, error) {
	switch jt.Kind {
	case "builtin":
		k, ok := ari.BuiltinKindByName(jt.Builtin)
		if !ok {
			return nil, fmt.Errorf("unrecognized builtin kind %q", jt.Builtin)
		}
		return typesys.Builtin{Kind: k}, nil
	case "alias":
		return typesys.Alias{Ref: ari.ADMTypeName{
			Org:   parseID(jt.AliasOrg),
			Model: parseID(jt.AliasModel),
			Name:  parseID(jt.AliasName),
		}}, nil
	}
	return nil, fmt.Errorf("unsupported typedef kind %q in JSON ingestion; union/list/map/constrained typedefs require the external YANG ingestion pipeline", jt.Kind)
}

func parseID(s string) ari.ID {
	if s == "" {
		return ari.ID{}
	}
	return ari.TextID(s)
}

func parseTypeRef(s string) (ari.TypeRef, error) {
	if k, ok := ari.BuiltinKindByName(s); ok {
		return ari.Builtin(k), nil
	}
	return ari.TypeRef{}, fmt.Errorf("unrecognized builtin type name %q (ADM typedef references are not supported in JSON value_type fields)", s)
}

func fromModule(m *admcatalog.Module) (*jsonModule, error) {
	jm := &jsonModule{
		Org:   m.Org.String(),
		Model: m.Model.String(),
		Enum:  m.Enum,
	}
	if m.Revision != nil {
		jm.Revision = &jsonRevision{Year: m.Revision.Year, Month: m.Revision.Month, Day: m.Revision.Day}
	}
	var keys []admcatalog.ObjectKey
	for k := range m.Objects {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Type != keys[j].Type {
			return keys[i].Type < keys[j].Type
		}
		return keys[i].Name < keys[j].Name
	})
	for _, k := range keys {
		jo, err := fromObject(m.Objects[k])
		if err != nil {
			return nil, err
		}
		jm.Objects = append(jm.Objects, jo)
	}
	return jm, nil
}

func fromObject(obj *admcatalog.Object) (*jsonObject, error) {
	jo := &jsonObject{Type: obj.Type.String(), Name: obj.Name, Enum: obj.Enum}
	if obj.ValueType.IsBuiltin() {
		jo.ValueType = obj.ValueType.Builtin.String()
	}
	if obj.ConstValue != nil {
		s, err := textcodec.Format(obj.ConstValue, textcodec.DefaultOptions())
		if err != nil {
			return nil, err
		}
		jo.ConstValue = s
	}
	if obj.ResultType != nil && obj.ResultType.IsBuiltin() {
		jo.ResultType = obj.ResultType.Builtin.String()
	}
	for _, fp := range obj.FormalParams {
		jfp := jsonFormalParam{Name: fp.Name}
		if fp.Type.IsBuiltin() {
			jfp.Type = fp.Type.Builtin.String()
		}
		if fp.Default != nil {
			s, err := textcodec.Format(fp.Default, textcodec.DefaultOptions())
			if err != nil {
				return nil, err
			}
			jfp.Default = s
		}
		jo.FormalParams = append(jo.FormalParams, jfp)
	}
	switch te := obj.Typedef.(type) {
	case typesys.Builtin:
		jo.Typedef = &jsonTypedef{Kind: "builtin", Builtin: te.Kind.String()}
	case typesys.Alias:
		jo.Typedef = &jsonTypedef{Kind: "alias", AliasOrg: te.Ref.Org.String(), AliasModel: te.Ref.Model.String(), AliasName: te.Ref.Name.String()}
	}
	return jo, nil
}

func applyTransforms(m *admcatalog.Module, names []string) (*admcatalog.Module, error) {
	for _, name := range names {
		switch name {
		case "add-enum", "adm-add-enum":
			m = transforms.AddEnum(m)
		case "canonicalize":
			cm := transforms.Canonicalize(m)
			m = &cm.Module
		default:
			return nil, fmt.Errorf("unrecognized transform %q", name)
		}
	}
	return m, nil
}

func lintModule(m *admcatalog.Module) []transforms.Finding {
	return transforms.Lint(m)
}
