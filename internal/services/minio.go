package services

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"

	"velora_back_end/internal/database"
)

// UploadInvoice archive le PDF d'une facture dans le bucket MinIO des
// factures. Le nom d'objet est dérivé de l'id de commande : un nouvel
// upload pour la même commande écrase l'ancien.
func UploadInvoice(ctx context.Context, orderID string, pdf []byte) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	objectName := invoiceObjectName(orderID)

	_, err := database.MinIO.PutObject(ctx, database.InvoicesBucket(), objectName,
		bytes.NewReader(pdf), int64(len(pdf)),
		minio.PutObjectOptions{ContentType: "application/pdf"})
	if err != nil {
		return "", err
	}

	return objectName, nil
}

// SignedInvoiceURL génère une URL signée temporaire vers la facture d'une
// commande.
func SignedInvoiceURL(ctx context.Context, orderID string, duration time.Duration) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	reqParams := make(url.Values)
	presignedURL, err := database.MinIO.PresignedGetObject(
		ctx,
		database.InvoicesBucket(),
		invoiceObjectName(orderID),
		duration,
		reqParams,
	)
	if err != nil {
		return "", err
	}

	return presignedURL.String(), nil
}

func invoiceObjectName(orderID string) string {
	return "factures/" + orderID + ".pdf"
}
