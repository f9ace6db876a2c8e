// SPDX-License-Identifier: GPL-3.0-or-later

package mcwire

import (
	"errors"

	"github.com/bassosimone/mcwire/errclass"
)

// ErrClassifier classifies errors into categorical strings for analysis.
//
// Implementations map errors to short labels (e.g., "EUNDERRUN",
// "ECONNRESET") suitable for the errClass field of log events.
type ErrClassifier interface {
	Classify(err error) string
}

// ErrClassifierFunc adapts a function to the [ErrClassifier] interface.
//
//	op.ErrClassifier = ErrClassifierFunc(errclass.New)
type ErrClassifierFunc func(error) string

var _ ErrClassifier = ErrClassifierFunc(nil)

// Classify implements [ErrClassifier].
func (f ErrClassifierFunc) Classify(err error) string {
	return f(err)
}

// DefaultErrClassifier labels the errors of this module and defers
// to [errclass.New] for everything else.
var DefaultErrClassifier = ErrClassifierFunc(classifyError)

func classifyError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPoisoned):
		return errclass.EPOISONED
	case errors.Is(err, ErrEncryptionEnabled):
		return errclass.EENCRYPTION
	case errors.Is(err, ErrNoAddress), errors.Is(err, ErrDNSResponse):
		return errclass.EDNS
	default:
		return errclass.New(err)
	}
}
