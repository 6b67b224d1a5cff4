package params

import (
	"context"
	goerrors "errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"syscall"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-params/koanf/providers/env"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

var (
	DefaultDelimiter = "."
	DefaultEnvPrefix = "PARAM_"
	// DefaultStructTag is the tag StructProvider reads parameter names from.
	DefaultStructTag = "param"
)

type ProviderBuilder func(*Registry) (Provider, error)

type ProviderType string

// Provider is a source of parameter values applied on top of a registry.
type Provider interface {
	Type() ProviderType
	Priority() int
	Validate() error
	Load(context.Context, *Registry) error
}

type Loader struct {
	order        int
	providerType ProviderType
	load         func(context.Context, *Registry) error
}

func (l *Loader) Priority() int {
	return l.order
}

func (l *Loader) Type() ProviderType {
	return l.providerType
}

func (l *Loader) Load(ctx context.Context, r *Registry) error {
	return l.load(ctx, r)
}

func (l *Loader) Validate() error {
	if l.load == nil {
		return errors.New("provider has no load function", errors.CategoryValidation).
			WithTextCode("INVALID_LOADER")
	}
	return l.providerType.validate()
}

const (
	ProviderTypeDefault   ProviderType = "default"
	ProviderTypeLocalFile ProviderType = "file"
	ProviderTypeEnv       ProviderType = "env"
	ProviderTypeFlag      ProviderType = "pflag"
	ProviderTypeStruct    ProviderType = "struct"
)

type Priority int

// WithOffset nudges a priority so two providers of the same family apply
// in a chosen order:
//
//	FileProvider("base.params", int(PriorityConfig.WithOffset(-1)))
//	FileProvider("local.params", int(PriorityConfig.WithOffset(1)))
func (p Priority) WithOffset(offset int) Priority {
	return Priority(int(p) + offset)
}

var (
	PriorityDefaults Priority = 0
	PriorityStruct   Priority = 10
	PriorityConfig   Priority = 20
	PriorityEnv      Priority = 30
	PriorityFlags    Priority = 40
)

func (p ProviderType) String() string {
	return string(p)
}

func (p ProviderType) validate() error {
	switch p {
	case ProviderTypeDefault, ProviderTypeLocalFile, ProviderTypeEnv, ProviderTypeFlag, ProviderTypeStruct:
		return nil
	default:
		return errors.New("invalid provider type", errors.CategoryValidation).
			WithTextCode("INVALID_PROVIDER_TYPE").
			WithMetadata(map[string]any{
				"provider_type": string(p),
				"valid_types": []string{
					string(ProviderTypeDefault),
					string(ProviderTypeLocalFile),
					string(ProviderTypeEnv),
					string(ProviderTypeFlag),
					string(ProviderTypeStruct),
				},
			})
	}
}

// LoadProviders builds, validates and applies providers in ascending
// priority, so later providers override earlier ones. It stops at the
// first error; values applied before the failure stay in place.
func (r *Registry) LoadProviders(ctx context.Context, builders ...ProviderBuilder) error {
	ctx, cancel := context.WithTimeout(ctx, r.loadTimeout)
	defer cancel()

	providers := make([]Provider, 0, len(builders))
	for i, builder := range builders {
		if builder == nil {
			continue
		}
		provider, err := builder(r)
		if err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to create provider").
				WithTextCode("PROVIDER_CREATION_FAILED").
				WithMetadata(map[string]any{
					"factory_index":   i,
					"total_factories": len(builders),
				})
		}
		providers = append(providers, provider)
	}

	for i, src := range providers {
		if err := src.Validate(); err != nil {
			return errors.Wrap(err, errors.CategoryValidation, "invalid provider").
				WithTextCode("INVALID_PROVIDER").
				WithMetadata(map[string]any{
					"source_type":    string(src.Type()),
					"provider_index": i,
				})
		}
	}

	sort.SliceStable(providers, func(i, j int) bool {
		return providers[i].Priority() < providers[j].Priority()
	})

	for i, source := range providers {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "parameter loading cancelled").
				WithTextCode("LOAD_CANCELLED").
				WithMetadata(map[string]any{
					"source_index":  i,
					"total_sources": len(providers),
				})
		}
		r.logger.Debug("= loading source %s", source.Type())
		if err := source.Load(ctx, r); err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to load parameters from source").
				WithTextCode("PARAMS_LOAD_FAILED").
				WithMetadata(map[string]any{
					"source_type":   string(source.Type()),
					"source_index":  i,
					"total_sources": len(providers),
				})
		}
	}

	return nil
}

// DefaultValuesProvider applies a map of values. Nested maps address dotted
// names.
func DefaultValuesProvider(def map[string]any, order ...int) ProviderBuilder {
	return func(r *Registry) (Provider, error) {
		kprovider := confmap.Provider(def, DefaultDelimiter)

		prv := &Loader{
			providerType: ProviderTypeDefault,
			order:        getOrder(PriorityDefaults, order...),
			load: func(ctx context.Context, r *Registry) error {
				k := koanf.New(DefaultDelimiter)
				if err := k.Load(kprovider, nil); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load default values").
						WithTextCode("DEFAULT_VALUES_LOAD_FAILED").
						WithMetadata(map[string]any{
							"values_count": len(def),
						})
				}
				return applyKoanf(ctx, r, k, ProviderTypeDefault)
			},
		}
		return prv, nil
	}
}

// FileProvider loads a parameter file. JSON, YAML and TOML are recognised
// by extension; any other file is read with the line format, keeping line
// numbers in errors.
func FileProvider(filepath string, orders ...int) ProviderBuilder {
	filetype := inferFileType(filepath)

	return func(r *Registry) (Provider, error) {
		p := &Loader{
			providerType: ProviderTypeLocalFile,
			order:        getOrder(PriorityConfig, orders...),
			load: func(ctx context.Context, r *Registry) error {
				r.logger.Debug("file provider %s (%s)", filepath, filetype)
				if filetype == FileTypeParams {
					return r.LoadFile(filepath)
				}

				k := koanf.New(DefaultDelimiter)
				if err := k.Load(file.Provider(filepath), filetype.Parser()); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load parameters from file").
						WithTextCode("FILE_LOAD_FAILED").
						WithMetadata(map[string]any{
							"filepath":  filepath,
							"file_type": string(filetype),
						})
				}
				return applyKoanf(ctx, r, k, ProviderTypeLocalFile)
			},
		}
		return p, nil
	}
}

// EnvKey returns the environment variable that EnvProvider reads for name:
// the prefix followed by the upper cased name, with "." as "__" and "-"
// as "_". Names such as "a-b", "a_b" and "A_B" map to the same variable;
// EnvProvider fails when two declared names collide.
func EnvKey(prefix, name string) string {
	return prefix + strings.ToUpper(strings.NewReplacer(".", "__", "-", "_").Replace(name))
}

// EnvProvider reads one variable per declared parameter, named by EnvKey.
// Variables that match no declared parameter are ignored. Two declared names
// with the same EnvKey fail the load with ENV_KEY_COLLISION.
func EnvProvider(prefix string, order ...int) ProviderBuilder {
	return func(r *Registry) (Provider, error) {
		prv := &Loader{
			providerType: ProviderTypeEnv,
			order:        getOrder(PriorityEnv, order...),
			load: func(ctx context.Context, r *Registry) error {
				names := map[string]string{}
				for _, name := range r.Names() {
					key := EnvKey(prefix, name)
					if other, ok := names[key]; ok {
						return errors.New("parameters share an environment variable", errors.CategoryConflict).
							WithTextCode("ENV_KEY_COLLISION").
							WithMetadata(map[string]any{
								"variable":   key,
								"parameters": []string{other, name},
							})
					}
					names[key] = name
				}

				kprov := env.Provider(prefix, func(key string) string {
					return names[key]
				})

				r.logger.Debug("env provider %s", prefix)
				k := koanf.New(DefaultDelimiter)
				if err := k.Load(kprov, json.Parser()); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load environment variables").
						WithTextCode("ENV_LOAD_FAILED").
						WithMetadata(map[string]any{
							"prefix": prefix,
						})
				}
				return applyKoanf(ctx, r, k, ProviderTypeEnv)
			},
		}
		return prv, nil
	}
}

// FlagsProvider applies flags the user actually passed. Flags left at their
// default are skipped so they never override lower priority sources.
func FlagsProvider(flagset *pflag.FlagSet, order ...int) ProviderBuilder {
	return func(r *Registry) (Provider, error) {
		if flagset == nil {
			return &Loader{}, errors.New("flagset cannot be nil", errors.CategoryBadInput).
				WithTextCode("NIL_FLAGSET")
		}

		prv := &Loader{
			providerType: ProviderTypeFlag,
			order:        getOrder(PriorityFlags, order...),
			load: func(ctx context.Context, r *Registry) error {
				r.logger.Debug("flags provider")
				kprov := posflag.ProviderWithFlag(flagset, DefaultDelimiter, nil, func(f *pflag.Flag) (string, any) {
					if !f.Changed || !r.Declared(f.Name) {
						return "", nil
					}
					return f.Name, f.Value.String()
				})

				k := koanf.New(DefaultDelimiter)
				if err := k.Load(kprov, nil); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load parameters from posix flags").
						WithTextCode("FLAGS_LOAD_FAILED").
						WithMetadata(map[string]any{
							"delimiter": DefaultDelimiter,
						})
				}
				return applyKoanf(ctx, r, k, ProviderTypeFlag)
			},
		}
		return prv, nil
	}
}

// StructProvider applies the fields of a struct tagged with `param:"name"`.
// Every tagged field is applied, including zero values.
func StructProvider(v any, order ...int) ProviderBuilder {
	if v == nil {
		return func(r *Registry) (Provider, error) {
			return &Loader{}, errors.New("struct cannot be nil", errors.CategoryBadInput).
				WithTextCode("NIL_STRUCT")
		}
	}

	return func(r *Registry) (Provider, error) {
		kprv := structs.Provider(v, DefaultStructTag)

		prv := &Loader{
			providerType: ProviderTypeStruct,
			order:        getOrder(PriorityStruct, order...),
			load: func(ctx context.Context, r *Registry) error {
				r.logger.Debug("struct provider")
				k := koanf.New(DefaultDelimiter)
				if err := k.Load(kprv, nil); err != nil {
					return errors.Wrap(err,
						errors.CategoryOperation,
						"failed to load parameters from struct",
					).
						WithTextCode("STRUCT_LOAD_FAILED")
				}
				return applyKoanf(ctx, r, k, ProviderTypeStruct)
			},
		}
		return prv, nil
	}
}

// BindFlags registers a string flag for every visible parameter that does
// not have one yet. The flag default shows the current value and its usage
// is the parameter description. Pair it with FlagsProvider.
func (r *Registry) BindFlags(flagset *pflag.FlagSet) {
	for _, s := range r.visible() {
		if flagset.Lookup(s.name) != nil {
			continue
		}
		def := ""
		if s.set {
			def = s.raw
		}
		usage := s.description
		if usage == "" {
			usage = fmt.Sprintf("%s parameter", s.kind)
		}
		flagset.String(s.name, def, usage)
	}
}

type ErrorFilter func(err error) bool

func DefaultErrorFilter(allowedErrors ...error) ErrorFilter {
	return func(err error) bool {
		if err == nil {
			return false
		}

		if len(allowedErrors) == 0 {
			// ignore absent files but surface other errors i.e. bad lines
			return os.IsNotExist(err) || goerrors.Is(err, syscall.ENOENT)
		}

		for _, allowed := range allowedErrors {
			if goerrors.Is(err, allowed) {
				return true
			}
		}

		return false
	}
}

// OptionalProvider wraps a provider so that errors accepted by errIgnore
// are dropped.
func OptionalProvider(f ProviderBuilder, errIgnoreFuncs ...ErrorFilter) ProviderBuilder {
	errIgnore := DefaultErrorFilter()
	if len(errIgnoreFuncs) > 0 {
		errIgnore = errIgnoreFuncs[0]
	}

	return func(r *Registry) (Provider, error) {
		baseProvider, err := f(r)
		if err != nil {
			return &Loader{}, err
		}

		p := &Loader{
			providerType: baseProvider.Type(),
			order:        baseProvider.Priority(),
			load: func(ctx context.Context, r *Registry) error {
				if err := baseProvider.Load(ctx, r); err != nil && !errIgnore(err) {
					return err
				}
				return nil
			},
		}
		return p, nil
	}
}

// applyKoanf pushes every leaf of k into the registry in key order. Text
// goes through Set; typed values from structured sources go through Assign,
// except for string slots which take their text form.
func applyKoanf(ctx context.Context, r *Registry, k *koanf.Koanf, source ProviderType) error {
	for _, key := range k.Keys() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := applyValue(r, key, k.Get(key)); err != nil {
			return errors.Wrap(err, errors.CategoryValidation, fmt.Sprintf("invalid value for %q", key)).
				WithTextCode("PARAM_VALUE_INVALID").
				WithMetadata(map[string]any{
					"name":   key,
					"source": string(source),
				})
		}
	}
	return nil
}

func applyValue(r *Registry, name string, v any) error {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		return r.Set(name, x)
	}

	kind, err := r.Kind(name)
	if err != nil {
		return err
	}
	if kind == KindString {
		switch v.(type) {
		case []any, map[string]any:
			return kindMismatchError(name, kind, v)
		}
		return r.Set(name, fmt.Sprint(v))
	}
	return r.Assign(name, v)
}

func getOrder(defaultOrder Priority, orders ...int) int {
	if len(orders) > 0 {
		return orders[0]
	}
	return int(defaultOrder)
}
