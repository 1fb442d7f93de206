package config

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	dnsLabelRegexp = regexp.MustCompile(`^[a-z0-9_]([a-z0-9_-]{0,61}[a-z0-9_])?$`)
	envNameRegexp  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// getValidationMessage returns a human-readable message for a validation error
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "max":
		return fmt.Sprintf("must be <= %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be > %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "hostport_or_empty":
		return "must be in format 'host:port' or empty"
	case "upstream_url":
		return "must be a valid nameserver (udp://ip:port, tcp://ip:port, doh://host/path or ip[:port])"
	case "dns_label":
		return "must be a single lowercase DNS label, e.g. 'cdn'"
	case "env_name":
		return "must be a valid environment variable name"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}

// ValidationError represents a single validation error with context
type ValidationError struct {
	FieldPath string // Dot-notation field path (e.g., "discovery.workers")
	Message   string // Human-readable error message
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("validation failed with %d error(s):\n", len(ve)))
	for i, err := range ve {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.FieldPath, err.Message))
	}
	return sb.String()
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("hostport_or_empty", validateHostPortOrEmpty); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("upstream_url", validateUpstreamURLTag); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("dns_label", validateDNSLabel); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("env_name", validateEnvName); err != nil {
		panic(err)
	}

	// Register function to get field name from "toml" tag
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validator: host:port format or empty
func validateHostPortOrEmpty(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, _, err := net.SplitHostPort(value)
	return err == nil
}

// Custom validator: nameserver URL format
func validateUpstreamURLTag(fl validator.FieldLevel) bool {
	return validateUpstreamURL(fl.Field().String()) == nil
}

func validateDNSLabel(fl validator.FieldLevel) bool {
	return dnsLabelRegexp.MatchString(fl.Field().String())
}

func validateEnvName(fl validator.FieldLevel) bool {
	return envNameRegexp.MatchString(fl.Field().String())
}

// validateUpstreamURL validates nameserver URL format
func validateUpstreamURL(upstream string) error {
	if upstream == "" {
		return fmt.Errorf("nameserver cannot be empty")
	}

	for _, scheme := range []string{"udp://", "tcp://"} {
		if strings.HasPrefix(upstream, scheme) {
			addr := strings.TrimPrefix(upstream, scheme)
			if !isIPOrIPPort(addr) {
				return fmt.Errorf("invalid %s nameserver format (expected %sip[:port])", strings.TrimSuffix(scheme, "://"), scheme)
			}
			return nil
		}
	}

	if strings.HasPrefix(upstream, "doh://") || strings.HasPrefix(upstream, "https://") {
		u, err := url.Parse(strings.Replace(upstream, "doh://", "https://", 1))
		if err != nil || u.Host == "" || u.Path == "" {
			return fmt.Errorf("invalid DoH nameserver format (expected doh://host/path)")
		}
		return nil
	}

	if strings.Contains(upstream, "://") {
		return fmt.Errorf("unsupported nameserver scheme (supported: udp://, tcp://, doh://)")
	}

	if !isIPOrIPPort(upstream) {
		return fmt.Errorf("invalid nameserver address (expected ip or ip:port)")
	}
	return nil
}

func isIPOrIPPort(addr string) bool {
	if net.ParseIP(addr) != nil {
		return true
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil || port == "" {
		return false
	}
	return net.ParseIP(host) != nil
}
