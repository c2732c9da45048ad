package workflow

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/roomledger/rentals_backend/config"
	"github.com/roomledger/rentals_backend/models"
	"github.com/roomledger/rentals_backend/utils"
	"github.com/sirupsen/logrus"
)

// signature images are normalized to PNG and bounded to this width before
// they are persisted.
const maxSignatureImageWidth = 600

// NewSignature is the signing request captured from the tenant's device.
type NewSignature struct {
	LeaseId int `validate:"required,gt=0"`

	// ImagePayload is a data-URL embedded image (png or jpeg).
	ImagePayload string `validate:"required"`

	SignerIpAddress string `validate:"max=64"`
	SignerUserAgent string `validate:"max=500"`
	Note            string `validate:"max=1000"`
}

// Sign captures a tenant's signature on a lease: it persists the image,
// records the verification hash, advances the lease to Signed and
// regenerates the document with the signature embedded.
//
// One signature is tolerated per lease; a second attempt fails regardless
// of the signer (leases have a single tenant, so multi-signer support would
// be dead code).
//
// The returned warning is non-empty when the signed document came from a
// fallback tier of the generator.
func (e *LeaseEngine) Sign(ctx context.Context, actor Actor, input *NewSignature) (*models.DigitalSignature, string, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, "", err
	}

	lease, err := e.Leases.Get(ctx, input.LeaseId)
	if err != nil {
		return nil, "", err
	}
	if err := e.authorizeForSigning(lease, actor); err != nil {
		return nil, "", err
	}

	signerTenantId := lease.TenantId

	var signature *models.DigitalSignature
	err = e.Leases.WithSigningLock(ctx, lease.ID, func() error {
		if _, sigErr := e.Signatures.GetByLease(ctx, lease.ID); sigErr == nil {
			return fmt.Errorf("%w: already signed", utils.ErrorInvalidState)
		} else if !errors.Is(sigErr, utils.ErrorRecordNotFound) {
			return sigErr
		}

		imageData, decodeErr := decodeSignatureImage(input.ImagePayload)
		if decodeErr != nil {
			return decodeErr
		}

		signedAt := e.Now().UTC()
		imagePath := fmt.Sprintf("%s/signature_%d_%d.png", utils.StoragePathSignatures, lease.ID, signedAt.Unix())
		if writeErr := e.Storage.WriteBytes(ctx, imagePath, imageData); writeErr != nil {
			return fmt.Errorf("store signature image: %w", writeErr)
		}

		signature = &models.DigitalSignature{
			LeaseId:          lease.ID,
			TenantId:         signerTenantId,
			SignedAt:         signedAt,
			ImagePath:        imagePath,
			SignerIpAddress:  input.SignerIpAddress,
			SignerUserAgent:  input.SignerUserAgent,
			Note:             input.Note,
			VerificationHash: ComputeVerificationHash(lease.ID, input.SignerIpAddress, signedAt, imageData),
			IsVerified:       true,
		}
		return e.Signatures.Add(ctx, signature)
	})
	if err != nil {
		return nil, "", err
	}

	lease.IsSigned = true
	lease.SignedAt = &signature.SignedAt
	if lease.Status.CanTransitionTo(models.LeaseStatusSigned) {
		lease.Status = models.LeaseStatusSigned
	}
	if err := e.Leases.Update(ctx, lease); err != nil {
		return nil, "", err
	}

	annotated := e.annotateSignedContent(ctx, lease, signature)
	warning, err := e.generateDocument(ctx, lease, annotated, "_signed")
	if err != nil {
		return nil, "", err
	}
	if warning != "" {
		// The signature itself succeeded; the generator has already logged the
		// failed tier, so the caller only needs the quality note.
		warning = "signed lease document was produced at reduced quality by a fallback renderer"
	}

	e.logger.WithFields(logrus.Fields{
		"module":      "signatureWorkflow",
		"leaseId":     lease.ID,
		"signatureId": signature.ID,
		"browser":     utils.BrowserFromUserAgent(signature.SignerUserAgent),
	}).Info("lease signed")
	return signature, warning, nil
}

// GetSignature returns the signature record for an authorized actor.
func (e *LeaseEngine) GetSignature(ctx context.Context, leaseId int, actor Actor) (*models.DigitalSignature, error) {
	lease, err := e.Leases.Get(ctx, leaseId)
	if err != nil {
		return nil, err
	}
	if err := e.Authorize(lease, actor); err != nil {
		return nil, err
	}
	return e.Signatures.GetByLease(ctx, leaseId)
}

// ComputeVerificationHash binds the signing event to the lease, the signer's
// network address, the server-side timestamp and the stored image bytes.
// Returned base64-encoded.
func ComputeVerificationHash(leaseId int, signerIp string, signedAt time.Time, imageData []byte) string {
	material := fmt.Sprintf("%d|%s|%s", leaseId, signerIp, signedAt.Format(time.RFC3339))
	if len(imageData) > 0 {
		imageDigest := sha256.Sum256(imageData)
		material = fmt.Sprintf("%s|%x", material, imageDigest)
	}
	digest := sha256.Sum256([]byte(material))
	return base64.StdEncoding.EncodeToString(digest[:])
}

// decodeSignatureImage accepts a base64 data URL (png or jpeg), validates
// that it decodes as an image, bounds its width and re-encodes it as PNG.
func decodeSignatureImage(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if !strings.HasPrefix(payload, "data:image/") {
		return nil, fmt.Errorf("%w: signature payload must be an embedded image data URL", utils.ErrorValidationFailed)
	}
	marker := ";base64,"
	idx := strings.Index(payload, marker)
	if idx < 0 {
		return nil, fmt.Errorf("%w: signature payload must be base64 encoded", utils.ErrorValidationFailed)
	}
	mimeType := payload[len("data:"):idx]
	if mimeType != "image/png" && mimeType != "image/jpeg" {
		return nil, fmt.Errorf("%w: unsupported signature image type %s", utils.ErrorValidationFailed, mimeType)
	}

	raw, err := base64.StdEncoding.DecodeString(payload[idx+len(marker):])
	if err != nil {
		return nil, fmt.Errorf("%w: signature payload is not valid base64", utils.ErrorValidationFailed)
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: signature payload is not a decodable image", utils.ErrorValidationFailed)
	}
	if img.Bounds().Dx() > maxSignatureImageWidth {
		img = imaging.Resize(img, maxSignatureImageWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode signature image: %w", err)
	}
	return buf.Bytes(), nil
}

// annotateSignedContent appends the signature block to a copy of the lease
// HTML: the inline image (or a labeled placeholder when the stored image
// cannot be read back), signer metadata, a readable browser name and the
// verification hash.
func (e *LeaseEngine) annotateSignedContent(ctx context.Context, lease *models.LeaseAgreement, signature *models.DigitalSignature) string {
	var imageBlock string
	if imageData, err := e.Storage.ReadBytes(ctx, signature.ImagePath); err == nil {
		imageBlock = fmt.Sprintf(
			`<img src="data:image/png;base64,%s" alt="Tenant signature" style="max-height:80px">`,
			base64.StdEncoding.EncodeToString(imageData),
		)
	} else {
		config.LogError(e.logger, "signatureWorkflow", "annotateSignedContent", "readImage", signature.ImagePath, err)
		imageBlock = fmt.Sprintf(
			`<div style="border:1px dashed #999;padding:8px">[Signature image on file: %s]</div>`,
			signature.ImagePath,
		)
	}

	var note string
	if signature.Note != "" {
		note = fmt.Sprintf("<p>Note: %s</p>\n", signature.Note)
	}

	block := fmt.Sprintf(`
<div style="margin-top:40px;border-top:1px solid #666;padding-top:12px">
  <p><strong>Digitally signed</strong></p>
  %s
  <p>Signed on %s via %s (%s)</p>
  %s<p style="font-size:10px;color:#555">Verification hash: %s</p>
</div>`,
		imageBlock,
		signature.SignedAt.Format("2 January 2006 15:04 MST"),
		utils.BrowserFromUserAgent(signature.SignerUserAgent),
		signature.SignerIpAddress,
		note,
		signature.VerificationHash,
	)
	return lease.Content + block
}
