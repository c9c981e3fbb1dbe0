// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "errors"

// dispatch
var (
	ErrUnknownContract     = errors.New("ErrUnknownContract")
	ErrUnknownEntryPoint   = errors.New("ErrUnknownEntryPoint")
	ErrInputSizeMismatch   = errors.New("ErrInputSizeMismatch")
	ErrOutputSizeMismatch  = errors.New("ErrOutputSizeMismatch")
	ErrCallOrder           = errors.New("ErrCallOrder")
	ErrContractNotActive   = errors.New("ErrContractNotActive")
	ErrUnknownCallKind     = errors.New("ErrUnknownCallKind")
	ErrRollbackUnsupported = errors.New("ErrRollbackUnsupported")
	ErrReadOnlyContext     = errors.New("ErrReadOnlyContext")
	ErrNoEnv               = errors.New("ErrNoEnv")
)

// registration
var (
	ErrStateTooLarge       = errors.New("ErrStateTooLarge")
	ErrLocalsTooLarge      = errors.New("ErrLocalsTooLarge")
	ErrDuplicateEntryPoint = errors.New("ErrDuplicateEntryPoint")
	ErrRegistrationOrder   = errors.New("ErrRegistrationOrder")
	ErrBadDependency       = errors.New("ErrBadDependency")
	ErrRegistryFrozen      = errors.New("ErrRegistryFrozen")
	ErrEmptyContractName   = errors.New("ErrEmptyContractName")
	ErrNonFixedSize        = errors.New("ErrNonFixedSize")
)

// fee report
var (
	ErrTxTooShort       = errors.New("ErrTxTooShort")
	ErrNotComputor      = errors.New("ErrNotComputor")
	ErrNonZeroAmount    = errors.New("ErrNonZeroAmount")
	ErrInputSize        = errors.New("ErrInputSize")
	ErrWrongInputType   = errors.New("ErrWrongInputType")
	ErrDataLock         = errors.New("ErrDataLock")
	ErrPhaseMismatch    = errors.New("ErrPhaseMismatch")
	ErrEntryAlignment   = errors.New("ErrEntryAlignment")
	ErrInvalidEntry     = errors.New("ErrInvalidEntry")
	ErrDuplicateReport  = errors.New("ErrDuplicateReport")
	ErrBadSignature     = errors.New("ErrBadSignature")
	ErrComputorRoster   = errors.New("ErrComputorRoster")
	ErrTooManyEntries   = errors.New("ErrTooManyEntries")
	ErrSnapshotSize     = errors.New("ErrSnapshotSize")
	ErrSnapshotNotFound = errors.New("ErrSnapshotNotFound")
	ErrNoSigner         = errors.New("ErrNoSigner")
	ErrNoDeductor       = errors.New("ErrNoDeductor")
)
