// Productrec - Neural Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/productrec

package recommend

import "errors"

// ErrNotFound matches every lookup failure below.
var ErrNotFound = errors.New("not found")

// NotFoundError is a lookup failure. Detail is the message shown to clients.
type NotFoundError struct {
	Detail string
}

func (e *NotFoundError) Error() string { return e.Detail }

// Is makes every NotFoundError match ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Lookup failures, checked in this order.
var (
	ErrUnknownUser  = &NotFoundError{Detail: "User ID not found"}
	ErrNoPurchases  = &NotFoundError{Detail: "User has not made any purchases."}
	ErrNoCandidates = &NotFoundError{Detail: "No products found for user's preferred category"}
)
