package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/samber/lo"

	"git.home.luguber.info/inful/folio/internal/markdown"
	"git.home.luguber.info/inful/folio/internal/plugin/builtin"
)

var domainPattern = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,}$`)

func init() {
	validation.ErrorTag = "yaml"
}

// Validate checks the configuration. The returned error is a
// validation.Errors keyed by the YAML section and field names.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Site),
		validation.Field(&c.Content),
		validation.Field(&c.Markdown),
		validation.Field(&c.Plugins),
		validation.Field(&c.Output),
		validation.Field(&c.Deployment, validation.By(c.adapterSupportsMode)),
		validation.Field(&c.Build),
		validation.Field(&c.Logging),
	)
}

func (s SiteConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Title, validation.Required),
		validation.Field(&s.BaseURL, validation.By(absoluteURL)),
	)
}

func (c ContentConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Directory, validation.Required),
		validation.Field(&c.StaticDirectory, validation.Required),
	)
}

func (m MarkdownConfig) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.HighlightTheme, validation.Required, validation.By(knownTheme)),
		validation.Field(&m.Extensions, validation.Each(validation.In(lo.ToAnySlice(markdown.ExtensionNames())...))),
	)
}

func (p PluginsConfig) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Enabled, validation.Each(validation.In(lo.ToAnySlice(builtin.Names())...)), validation.By(uniqueNames)),
		validation.Field(&p.Compress),
	)
}

func (c CompressConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MinBytes, validation.Min(0)),
	)
}

func (o OutputConfig) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Directory, validation.Required),
		validation.Field(&o.Mode, validation.Required, validation.In(OutputModeStatic, OutputModeServer)),
	)
}

func (d DeploymentConfig) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Adapter, validation.Required, validation.In(lo.ToAnySlice(Adapters)...)),
		validation.Field(&d.CNAME, validation.Match(domainPattern).Error("must be a bare domain name")),
	)
}

func (b BuildConfig) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Jobs, validation.Min(0)),
	)
}

func (l LoggingConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError)),
		validation.Field(&l.Format, validation.In(LogFormatJSON, LogFormatText)),
	)
}

func (c *Config) adapterSupportsMode(any) error {
	if c.Output.Mode == OutputModeServer && !c.Deployment.Adapter.SupportsServer() {
		return fmt.Errorf("adapter %q cannot host output mode %q", c.Deployment.Adapter, c.Output.Mode)
	}
	return nil
}

func knownTheme(value any) error {
	name, _ := value.(string)
	if name != "" && !markdown.HasTheme(name) {
		return fmt.Errorf("unknown highlight theme %q", name)
	}
	return nil
}

func absoluteURL(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("must include a host")
	}
	return nil
}

func uniqueNames(value any) error {
	names, _ := value.([]string)
	if dups := lo.FindDuplicates(lo.Map(names, func(s string, _ int) string { return strings.ToLower(s) })); len(dups) > 0 {
		return fmt.Errorf("duplicate entries: %s", strings.Join(dups, ", "))
	}
	return nil
}
