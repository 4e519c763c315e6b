// MIT License
//
// Copyright (c) 2026 Arsene Tochemey Gandote
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package entity

import (
	"errors"
	"fmt"
	"strings"

	serrors "github.com/tochemey/silo/errors"
	"github.com/tochemey/silo/internal/validation"
)

const identitySeparator = "/"

// Identity uniquely addresses one entity instance.
//
// It consists of:
//   - kind: the registered entity kind the instance belongs to.
//   - name: the unique instance identifier within that kind.
//
// Identities are immutable, safe for concurrent use, and stable across
// activations: the same identity always resolves to the same persisted state.
type Identity struct {
	kind string
	name string
}

// ensure Identity implements the validation.Validator interface
var _ validation.Validator = (*Identity)(nil)

// NewIdentity constructs an Identity from a registered kind and an instance
// name.
func NewIdentity(kind, name string) *Identity {
	return &Identity{
		kind: kind,
		name: name,
	}
}

// Kind returns the entity kind the instance belongs to.
func (id *Identity) Kind() string {
	return id.kind
}

// Name returns the unique name of the entity instance within its kind.
func (id *Identity) Name() string {
	return id.name
}

// String returns the formatted string representation of the Identity as
// "kind/name". It is the key under which the entity state is persisted.
func (id *Identity) String() string {
	if id == nil {
		return ""
	}
	return fmt.Sprintf("%s%s%s", id.kind, identitySeparator, id.name)
}

// Equal checks whether this Identity is equal to another. Two identities are
// equal if both kind and name are identical. Returns false if other is nil.
func (id *Identity) Equal(other *Identity) bool {
	if other == nil {
		return false
	}
	return id.kind == other.kind && id.name == other.name
}

// Validate implements validation.Validator.
func (id *Identity) Validate() error {
	pattern := "^[a-zA-Z0-9][a-zA-Z0-9-_\\.]*$"
	customErr := errors.New("must contain only word characters (i.e. [a-zA-Z0-9] plus non-leading '-' or '_')")
	return validation.
		New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("kind", id.Kind())).
		AddValidator(validation.NewEmptyStringValidator("name", id.Name())).
		AddAssertion(len(id.Name()) <= 255, "entity name is too long. Maximum length is 255").
		AddValidator(validation.NewPatternValidator(pattern, strings.TrimSpace(id.Kind()), customErr)).
		AddValidator(validation.NewPatternValidator(pattern, strings.TrimSpace(id.Name()), customErr)).
		Validate()
}

// ParseIdentity reconstructs an Identity from its string representation.
func ParseIdentity(s string) (*Identity, error) {
	parts := strings.SplitN(s, identitySeparator, 2)
	if len(parts) != 2 {
		return nil, serrors.ErrInvalidIdentity
	}
	identity := &Identity{kind: parts[0], name: parts[1]}
	if err := identity.Validate(); err != nil {
		return nil, serrors.NewErrInvalidIdentity(err)
	}
	return identity, nil
}
