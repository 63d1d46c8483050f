package qrcode

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
	darajaport "github.com/kmwangi/mpesa-gateway/internal/domain/port/daraja"
	"github.com/kmwangi/mpesa-gateway/internal/domain/port/persistence"
	qrport "github.com/kmwangi/mpesa-gateway/internal/domain/port/qr"
)

// HistoryLimit caps the number of records returned by the listing endpoint.
const HistoryLimit = 50

const defaultImageSize = 300

// Service implements M-Pesa QR code generation: vendor payload fetch,
// local PNG rendering, and persistence.
type Service struct {
	client       darajaport.Client
	repo         persistence.QRCodeRepository
	renderer     qrport.Renderer
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a QR code service with explicit dependencies.
func NewService(
	client darajaport.Client,
	repo persistence.QRCodeRepository,
	renderer qrport.Renderer,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		client:       client,
		repo:         repo,
		renderer:     renderer,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GenerateRequest carries the form fields for QR code generation.
type GenerateRequest struct {
	MerchantName string
	RefNo        string
	Amount       *float64
	TrxCode      string
	CPI          string
	Size         string
}

// GenerateResult pairs the stored record with the raw vendor QR string,
// which is returned to the caller but only persisted on the record.
type GenerateResult struct {
	QRCode       *entity.QRCode
	QRCodeString string
}

// Generate validates the request, obtains the QR payload from the vendor,
// renders it to a PNG data URL and stores the ACTIVE record.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if req.MerchantName == "" || req.RefNo == "" || req.TrxCode == "" {
		return nil, errs.ErrMissingField
	}
	if !entity.IsValidTrxCode(req.TrxCode) {
		return nil, fmt.Errorf("%w: use BG, WA, PB, or SM", errs.ErrInvalidTrxCode)
	}

	var vendorAmount *int64
	if req.Amount != nil {
		cents, err := entity.ValidateAmount(*req.Amount)
		if err != nil {
			return nil, err
		}
		shillings := entity.WholeShillings(cents)
		vendorAmount = &shillings
	}

	vendorQR, err := s.client.GenerateQR(ctx, darajaport.QRRequest{
		MerchantName: req.MerchantName,
		RefNo:        req.RefNo,
		Amount:       vendorAmount,
		TrxCode:      req.TrxCode,
		CPI:          req.CPI,
	})
	if err != nil {
		s.logger.Error("QR code generation failed", map[string]any{
			"merchant_name": req.MerchantName,
			"trx_code":      req.TrxCode,
			"error":         err.Error(),
		})
		return nil, err
	}

	size := defaultImageSize
	if req.Size != "" {
		if parsed, err := strconv.Atoi(req.Size); err == nil && parsed > 0 {
			size = parsed
		}
	}

	dataURL, err := s.renderer.DataURL(vendorQR.QRCode, size)
	if err != nil {
		return nil, fmt.Errorf("%w: rendering QR image: %v", errs.ErrInternalServer, err)
	}

	record, err := entity.NewQRCode(
		req.MerchantName,
		req.RefNo,
		req.Amount,
		req.TrxCode,
		req.CPI,
		strconv.Itoa(size),
		dataURL,
		vendorQR.QRCode,
		s.timeProvider,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("QR code generated", map[string]any{
		"merchant_name": record.MerchantName,
		"trx_code":      record.TrxCode,
		"ref_no":        record.RefNo,
	})
	return &GenerateResult{QRCode: record, QRCodeString: vendorQR.QRCode}, nil
}

// History returns the most recent QR codes, newest first.
func (s *Service) History(ctx context.Context) ([]*entity.QRCode, error) {
	return s.repo.ListRecent(ctx, HistoryLimit)
}
