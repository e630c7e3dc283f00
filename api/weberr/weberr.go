// Package weberr attaches HTTP responses and log fields to errors as
// they travel up the call chain.
package weberr

import "errors"

type Opt func(error) error

func Wrap(err error, opts ...Opt) error {
	for _, opt := range opts {
		err = opt(err)
	}
	return err
}

// WithResponse sets the body and status the error is rendered with. The
// outermost response in the chain wins.
func WithResponse(body any, status int) Opt {
	return func(err error) error {
		return &responseError{error: err, body: body, status: status}
	}
}

// WithFields attaches structured log fields.
func WithFields(fields map[string]any) Opt {
	return func(err error) error {
		return &fieldsError{error: err, fields: fields}
	}
}

type responseError struct {
	error
	body   any
	status int
}

func (e *responseError) Unwrap() error { return e.error }

func Response(err error) (body any, status int, ok bool) {
	var re *responseError
	if errors.As(err, &re) {
		return re.body, re.status, true
	}
	return nil, 0, false
}

type fieldsError struct {
	error
	fields map[string]any
}

func (e *fieldsError) Unwrap() error { return e.error }

// Fields merges the fields of every layer in the chain. Outer layers
// override inner ones on key clashes.
func Fields(err error) (map[string]any, bool) {
	var layers []map[string]any
	for err != nil {
		var fe *fieldsError
		if !errors.As(err, &fe) {
			break
		}
		layers = append(layers, fe.fields)
		err = fe.error
	}
	if len(layers) == 0 {
		return nil, false
	}

	out := make(map[string]any)
	for i := len(layers) - 1; i >= 0; i-- {
		for k, v := range layers[i] {
			out[k] = v
		}
	}
	return out, true
}
