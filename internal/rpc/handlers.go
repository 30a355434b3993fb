package rpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-seed/internal/importer"
	"github.com/Klingon-tech/klingnet-seed/internal/onboard"
	"github.com/Klingon-tech/klingnet-seed/internal/wallet"
)

// ── Mnemonic handlers ───────────────────────────────────────────────────

func (s *Server) handleMnemonicCheckWords(req *Request) (interface{}, *Error) {
	var params CheckWordsParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	check := s.validator.ValidateSetOfWords(params.Text)
	return &CheckWordsResult{
		Error:          check.Kind,
		InvalidWord:    check.InvalidWord,
		ValidLength:    check.ValidLength,
		FinishedTyping: s.validator.UserFinishedTypingWord(params.Text),
	}, nil
}

func (s *Server) handleMnemonicValidate(req *Request) (interface{}, *Error) {
	var params ValidateParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	res := s.validator.ValidateMnemonic(params.Mnemonic)
	return &ValidateResult{
		Valid:       res.Valid,
		Mnemonic:    res.Mnemonic,
		Error:       res.Kind,
		InvalidWord: res.InvalidWord,
		Message:     onboard.Message(s.localizer(params.Lang), res.Kind, res.InvalidWord),
	}, nil
}

// ── Wallet handlers ─────────────────────────────────────────────────────

func (s *Server) requireImporter() *Error {
	if s.importer == nil {
		return &Error{Code: CodeUnavailable, Message: "wallet import not enabled on this node"}
	}
	return nil
}

func (s *Server) handleWalletImport(ctx context.Context, req *Request) (interface{}, *Error) {
	if err := s.requireImporter(); err != nil {
		return nil, err
	}

	var params WalletImportParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	if params.Password == "" || params.Mnemonic == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "password and mnemonic are required"}
	}
	if len(params.Indexes) > importer.MaxIndexes {
		return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("at most %d indexes per import", importer.MaxIndexes)}
	}

	// Same checks and messages as the entry screen's submit.
	check := s.validator.ValidateMnemonic(params.Mnemonic)
	if !check.Valid {
		return nil, &Error{
			Code:    CodeInvalidPhrase,
			Message: onboard.Message(s.localizer(params.Lang), check.Kind, check.InvalidWord),
			Data:    MnemonicErrorData{Error: check.Kind, InvalidWord: check.InvalidWord},
		}
	}

	ir := onboard.NewImportRequest(check.Mnemonic, s.importCount)
	if len(params.Indexes) > 0 {
		ir.DerivationIndexes = params.Indexes
	}
	if params.ID != "" {
		ir.ID = params.ID
	}

	res, err := s.importer.Import(ctx, ir, importer.Credentials{
		Name:     params.Name,
		Password: []byte(params.Password),
	})
	if err != nil {
		return nil, s.importError(err)
	}

	return &WalletImportResult{
		ID:          res.ID,
		Name:        res.Name,
		Fingerprint: res.Fingerprint,
		Accounts:    res.Accounts,
	}, nil
}

// importError maps importer failures onto RPC error codes.
func (s *Server) importError(err error) *Error {
	switch {
	case errors.Is(err, importer.ErrWalletExists):
		return &Error{Code: CodeWalletExists, Message: err.Error()}
	case errors.Is(err, importer.ErrDuplicateRequest):
		return &Error{Code: CodeDuplicateID, Message: err.Error()}
	case errors.Is(err, importer.ErrUnsupportedAccount),
		errors.Is(err, importer.ErrNoIndexes),
		errors.Is(err, importer.ErrIndexOutOfRange),
		errors.Is(err, importer.ErrTooManyIndexes),
		errors.Is(err, importer.ErrDuplicateIndex),
		errors.Is(err, importer.ErrPasswordRequired),
		errors.Is(err, wallet.ErrInvalidName):
		return &Error{Code: CodeInvalidParams, Message: err.Error()}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &Error{Code: CodeInternalError, Message: "request canceled"}
	}
	return s.internalError("wallet_import", err)
}

func (s *Server) handleWalletList(_ *Request) (interface{}, *Error) {
	if err := s.requireImporter(); err != nil {
		return nil, err
	}

	ks := s.importer.Keystore()
	names, err := ks.List()
	if err != nil {
		return nil, s.internalError("wallet_list", err)
	}

	infos := make([]*wallet.WalletInfo, 0, len(names))
	for _, name := range names {
		info, err := ks.Info(name)
		if err != nil {
			s.logger.Warn().Err(err).Str("wallet", name).Msg("Skipping unreadable wallet")
			continue
		}
		infos = append(infos, info)
	}
	return &WalletListResult{Wallets: infos}, nil
}

func (s *Server) handleWalletListAccounts(req *Request) (interface{}, *Error) {
	if err := s.requireImporter(); err != nil {
		return nil, err
	}

	var params WalletNameParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	if params.Name == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "name is required"}
	}

	accounts, err := s.importer.Keystore().ListAccounts(params.Name)
	if errors.Is(err, wallet.ErrWalletNotFound) {
		return nil, &Error{Code: CodeNotFound, Message: fmt.Sprintf("wallet %q not found", params.Name)}
	}
	if err != nil {
		return nil, s.internalError("wallet_listAccounts", err)
	}
	if accounts == nil {
		accounts = []wallet.AccountEntry{}
	}
	return &WalletAccountsResult{Accounts: accounts}, nil
}

// ── Import journal handlers ─────────────────────────────────────────────

func (s *Server) handleImportGetStatus(req *Request) (interface{}, *Error) {
	if err := s.requireImporter(); err != nil {
		return nil, err
	}

	var params ImportIDParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	if params.ID == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "id is required"}
	}

	rec, err := s.importer.Journal().Get(params.ID)
	if errors.Is(err, importer.ErrRecordNotFound) {
		return nil, &Error{Code: CodeNotFound, Message: fmt.Sprintf("import %q not found", params.ID)}
	}
	if err != nil {
		return nil, s.internalError("import_getStatus", err)
	}
	return rec, nil
}

func (s *Server) handleImportList(_ *Request) (interface{}, *Error) {
	if err := s.requireImporter(); err != nil {
		return nil, err
	}

	recs, err := s.importer.Journal().List()
	if err != nil {
		return nil, s.internalError("import_list", err)
	}
	return &ImportListResult{Imports: recs}, nil
}
