// Package tablecfg 从 YAML/TOML/JSON 文件加载声明式表格定义, 构建为 table.Options
package tablecfg

import (
	_ "embed"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

var xlog = logrus.WithField("module", "tablecfg")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//go:embed schema.json
var schemaJSON string

var schema = gojsonschema.NewStringLoader(schemaJSON)

var ErrInvalid = errors.New("tablecfg: 表格定义无效")

type ColumnDef struct {
	Key       string `mapstructure:"key" json:"key"`
	Header    string `mapstructure:"header" json:"header"`
	Expr      string `mapstructure:"expr" json:"expr,omitempty"`
	SortExpr  string `mapstructure:"sort_expr" json:"sort_expr,omitempty"`
	ClassName string `mapstructure:"class_name" json:"class_name,omitempty"`
	Sortable  bool   `mapstructure:"sortable" json:"sortable"`
}

type SearchDef struct {
	Enabled     bool     `mapstructure:"enabled" json:"enabled"`
	Placeholder string   `mapstructure:"placeholder" json:"placeholder,omitempty"`
	Keys        []string `mapstructure:"keys" json:"keys"`
}

type StatusOptionDef struct {
	Label string `mapstructure:"label" json:"label"`
	Value any    `mapstructure:"value" json:"value"`
}

type StatusDef struct {
	Enabled  bool              `mapstructure:"enabled" json:"enabled"`
	Accessor string            `mapstructure:"accessor" json:"accessor"`
	Options  []StatusOptionDef `mapstructure:"options" json:"options"`
}

type PaginationDef struct {
	Enabled      bool `mapstructure:"enabled" json:"enabled"`
	ItemsPerPage int  `mapstructure:"items_per_page" json:"items_per_page"`
}

type SortDef struct {
	Key       string `mapstructure:"key" json:"key"`
	Direction string `mapstructure:"direction" json:"direction"`
}

type ActionDef struct {
	Variant   string `mapstructure:"variant" json:"variant"`
	Name      string `mapstructure:"name" json:"name"`
	Icon      string `mapstructure:"icon" json:"icon,omitempty"`
	Label     string `mapstructure:"label" json:"label,omitempty"`
	ClassName string `mapstructure:"class_name" json:"class_name,omitempty"`
	Handler   string `mapstructure:"handler" json:"handler,omitempty"`
}

// Definition 一个声明式表格. Source 为数据库表名, 为空时与 Name 相同
type Definition struct {
	Name           string         `mapstructure:"name" json:"name"`
	Title          string         `mapstructure:"title" json:"title"`
	Source         string         `mapstructure:"source" json:"source"`
	EmptyMessage   string         `mapstructure:"empty_message" json:"empty_message,omitempty"`
	Roles          []string       `mapstructure:"roles" json:"roles,omitempty"`
	WhereWhitelist []string       `mapstructure:"where_whitelist" json:"where_whitelist,omitempty"`
	Columns        []ColumnDef    `mapstructure:"columns" json:"columns"`
	Search         *SearchDef     `mapstructure:"search" json:"search,omitempty"`
	Status         *StatusDef     `mapstructure:"status" json:"status,omitempty"`
	Pagination     *PaginationDef `mapstructure:"pagination" json:"pagination,omitempty"`
	Sort           *SortDef       `mapstructure:"sort" json:"sort,omitempty"`
	Actions        []ActionDef    `mapstructure:"actions" json:"actions,omitempty"`

	File string `mapstructure:"-" json:"-"`
}

func (d *Definition) Table() string {
	if d.Source != "" {
		return d.Source
	}
	return d.Name
}

// Format 按扩展名判断: yaml, toml, json
func Format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	case ".json":
		return "json"
	}
	return ""
}

func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "读取 %s", path)
	}
	def, err := Parse(data, Format(path))
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	def.File = path
	return def, nil
}

// LoadDir 加载目录下所有定义, 按文件名排序. 表名重复时报错
func LoadDir(dir string) ([]*Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "读取目录 %s", dir)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && Format(e.Name()) != "" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	defs := make([]*Definition, 0, len(names))
	seen := map[string]string{}
	for _, name := range names {
		def, err := Load(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[def.Name]; ok {
			return nil, errors.Errorf("表格 '%s' 在 %s 和 %s 中重复定义", def.Name, prev, name)
		}
		seen[def.Name] = name
		defs = append(defs, def)
		xlog.WithField("table", def.Name).Debugf("加载表格定义 %s", name)
	}
	return defs, nil
}

// Parse 解码 -> schema 校验 -> 转为 Definition
func Parse(data []byte, format string) (*Definition, error) {
	doc, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}

	var def Definition
	if err := mapstructure.Decode(doc, &def); err != nil {
		return nil, errors.Wrap(err, "tablecfg: 解码")
	}
	if err := check(&def); err != nil {
		return nil, err
	}
	return &def, nil
}

func decode(data []byte, format string) (map[string]any, error) {
	var doc map[string]any
	var err error
	switch format {
	case "yaml":
		err = yaml.Unmarshal(data, &doc)
	case "toml":
		err = toml.Unmarshal(data, &doc)
	case "json":
		err = json.Unmarshal(data, &doc)
	default:
		return nil, errors.Errorf("tablecfg: 不支持的格式 '%s'", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "tablecfg: 解析 %s", format)
	}
	if doc == nil {
		return nil, errors.Wrap(ErrInvalid, "文件为空")
	}
	return doc, nil
}

// Validate 按内嵌的 JSON schema 校验文档
func Validate(doc map[string]any) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return errors.Wrap(err, "tablecfg: schema 校验")
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return errors.Wrap(ErrInvalid, strings.Join(msgs, "; "))
}

// check schema 无法表达的约束
func check(def *Definition) error {
	keys := make([]string, 0, len(def.Columns))
	for _, c := range def.Columns {
		if slices.Contains(keys, c.Key) {
			return errors.Wrapf(ErrInvalid, "列 '%s' 重复", c.Key)
		}
		keys = append(keys, c.Key)
	}
	if def.Sort != nil && !slices.Contains(keys, def.Sort.Key) {
		return errors.Wrapf(ErrInvalid, "排序列 '%s' 不存在", def.Sort.Key)
	}
	return nil
}
