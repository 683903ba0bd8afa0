package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"velora_back_end/internal/models"
	"velora_back_end/internal/utils"
)

// EmailNotifier déroule le post-checkout : facture PDF, archivage MinIO,
// e-mail de confirmation. Tout est asynchrone et ne peut pas faire échouer
// un paiement déjà enregistré.
type EmailNotifier struct{}

func NewEmailNotifier() *EmailNotifier {
	return &EmailNotifier{}
}

func (n *EmailNotifier) OrderCompleted(order models.Order, items []models.OrderItem, email string) {
	go n.process(order, items, email)
}

func (n *EmailNotifier) process(order models.Order, items []models.OrderItem, email string) {
	orderID := order.ID.String()

	pdf, err := n.buildInvoicePDF(order)
	if err != nil {
		log.Printf("⚠️ Facture PDF non générée pour %s: %v", orderID, err)
	}

	if pdf != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := UploadInvoice(ctx, orderID, pdf); err != nil {
			log.Printf("⚠️ Facture non archivée pour %s: %v", orderID, err)
		} else {
			log.Printf("🪣 Facture archivée pour la commande %s", orderID)
		}
		cancel()
	}

	if email == "" {
		log.Printf("⚠️ Pas d'e-mail pour la commande %s, confirmation non envoyée", orderID)
		return
	}

	html := utils.GenerateOrderConfirmationHTML(order, items)
	if err := utils.SendConfirmationEmail(email, "Confirmation de votre commande Velora", html, pdf); err != nil {
		log.Printf("⚠️ E-mail de confirmation non envoyé pour %s: %v", orderID, err)
		return
	}
	log.Printf("✅ Confirmation envoyée à %s pour la commande %s", email, orderID)
}

func (n *EmailNotifier) buildInvoicePDF(order models.Order) ([]byte, error) {
	iban := os.Getenv("COMPANY_IBAN")
	bic := os.Getenv("COMPANY_BIC")
	companyName := os.Getenv("COMPANY_NAME")
	if companyName == "" {
		companyName = "Velora SRL"
	}
	ref := fmt.Sprintf("FACT-%s", order.ID.String())

	qrBase64, err := utils.GenerateSepaQR(iban, bic, companyName, ref, order.FinalTotal)
	if err != nil {
		return nil, fmt.Errorf("erreur génération QR: %v", err)
	}

	return utils.RenderInvoicePDF(utils.GetFrontendInvoiceBaseURL(), order.ID.String(), qrBase64)
}
