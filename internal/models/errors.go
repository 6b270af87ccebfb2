package models

import (
	"errors"
)

var (
	// ErrEmptySearch is returned before any query is built when a request
	// carries neither free text nor a concrete filter.
	ErrEmptySearch = errors.New("models: at least one filter or a search term is required")

	// ErrStrategyUnavailable means the selected matching strategy's backing
	// index or column is disabled. Never downgraded silently: the search
	// role has no statement timeout, so an unplanned sequential scan is
	// worse than a failed request.
	ErrStrategyUnavailable = errors.New("models: search strategy unavailable")
)
