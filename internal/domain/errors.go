package domain

import "errors"

var (
	// ErrModuleInactive means the gateway module is not enabled in the
	// billing configuration.
	ErrModuleInactive = errors.New("module not activated")

	// ErrInvalidInvoice means the invoice token did not resolve to an
	// invoice owned by this gateway module.
	ErrInvalidInvoice = errors.New("invalid invoice")

	// ErrDuplicateTransaction means the transaction reference has already
	// been applied to an invoice.
	ErrDuplicateTransaction = errors.New("duplicate transaction")

	// ErrCurrencyConversion means the billing system could not convert
	// between the settlement and invoice currencies.
	ErrCurrencyConversion = errors.New("currency conversion failed")

	// ErrTransactionNotSuccessful means verification completed but the
	// processor reported a non-success outcome.
	ErrTransactionNotSuccessful = errors.New("transaction not successful")
)
