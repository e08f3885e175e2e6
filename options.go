package fieldmap

import (
	"github.com/viant/tagly/format/text"
	"log/slog"
)

type (
	options struct {
		tag           string
		logger        *slog.Logger
		keyCaseFormat text.CaseFormat
	}

	//Option represents definition option
	Option func(o *options)
)

func (o *options) apply(opts []Option) {
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
}

//WithTag sets a prefix used by Stringify keys: tag + "." + leaf
func WithTag(tag string) Option {
	return func(o *options) {
		o.tag = tag
	}
}

//WithLogger sets logger reporting performer compilation
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

//WithKeyCaseFormat re-cases Stringify key leaf name, i.e. text.CaseFormatLowerUnderscore: Customer.account_id
func WithKeyCaseFormat(caseFormat text.CaseFormat) Option {
	return func(o *options) {
		o.keyCaseFormat = caseFormat
	}
}
