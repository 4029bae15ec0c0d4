package domain

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Demo data pools for sample order generation.
var (
	sampleFirstNames = []string{"Mario", "Giulia", "Luca", "Anna", "Paolo", "Sara", "Marco", "Elena", "Andrea", "Chiara", "Francesco", "Valentina"}
	sampleLastNames  = []string{"Rossi", "Bianchi", "Verdi", "Neri", "Ferrari", "Romano", "Colombo", "Ricci", "Marino", "Greco", "Bruno", "Gallo"}
	sampleCities     = []string{"Milano", "Roma", "Torino", "Firenze", "Bologna", "Napoli", "Palermo", "Genova", "Venezia", "Verona"}
	sampleProvinces  = []string{"MI", "RM", "TO", "FI", "BO", "NA", "PA", "GE", "VE", "VR"}
	samplePostcodes  = []string{"20100", "00100", "10121", "50122", "40121", "80121", "90121", "16121", "30121", "37121"}
	sampleStreets    = []string{"Via Roma", "Corso Garibaldi", "Via Firenze", "Piazza Duomo", "Via Venezia", "Via Verdi", "Corso Vittorio Emanuele", "Via Dante"}

	sampleCategories = []string{"Laptop", "Smartphone", "Tablet", "Monitor", "Keyboard", "Mouse", "Headphones", "Speaker", "Webcam", "Printer"}
	sampleBrands     = []string{"Dell", "Samsung", "Apple", "HP", "Lenovo", "Logitech", "Sony", "JBL", "Canon", "Epson"}
	sampleModels     = []string{"XPS 15", "Galaxy S24", "iPad Pro", "UltraSharp", "MX Keys", "MX Master", "WH-1000XM5", "Charge 5", "EOS R5", "EcoTank"}

	sampleNotes = []string{
		"Urgent delivery requested",
		"Payment received in advance",
		"Gift for the development team",
		"Deliver to the office, 3rd floor",
		"Pickup at the store",
		"Deliver to the ground floor",
	}

	samplePayments = []PaymentMethod{PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentBankTransfer, PaymentPayPal}
)

// NewSampleOrder mints a randomised but internally consistent order snapshot
// in status Pending at version 1. The identity comes from the shared
// sequence; everything else is drawn from rng, so a seeded source yields
// reproducible orders.
func NewSampleOrder(seq *Sequence, rng *rand.Rand, now time.Time) Order {
	n := seq.Next()
	orderNumber := OrderNumber(n, now)
	customerID := CustomerID(n)

	firstName := sampleFirstNames[rng.Intn(len(sampleFirstNames))]
	lastName := sampleLastNames[rng.Intn(len(sampleLastNames))]

	cityIdx := rng.Intn(len(sampleCities))
	shipping := &Address{
		Street:     fmt.Sprintf("%s %d", sampleStreets[rng.Intn(len(sampleStreets))], rng.Intn(499)+1),
		City:       sampleCities[cityIdx],
		PostalCode: samplePostcodes[cityIdx],
		Province:   sampleProvinces[cityIdx],
		Country:    "IT",
	}
	billing := shipping
	if rng.Intn(100) < 30 {
		altIdx := rng.Intn(len(sampleCities))
		billing = &Address{
			Street:     fmt.Sprintf("%s %d", sampleStreets[rng.Intn(len(sampleStreets))], rng.Intn(499)+1),
			City:       sampleCities[altIdx],
			PostalCode: samplePostcodes[altIdx],
			Province:   sampleProvinces[altIdx],
			Country:    "IT",
		}
	}

	numLines := rng.Intn(4) + 1
	lines := make([]OrderLine, 0, numLines)
	for i := 0; i < numLines; i++ {
		category := sampleCategories[rng.Intn(len(sampleCategories))]
		brand := sampleBrands[rng.Intn(len(sampleBrands))]
		model := sampleModels[rng.Intn(len(sampleModels))]

		discountPct := decimal.Zero
		if rng.Intn(100) < 40 {
			discountPct = decimal.NewFromFloat(rng.Float64() * 20).Round(2)
		}
		taxPct := decimal.NewFromInt(4)
		if category == "Laptop" || category == "Smartphone" || category == "Tablet" {
			taxPct = decimal.NewFromInt(22)
		}

		line := OrderLine{
			LineNumber:         i + 1,
			ProductID:          fmt.Sprintf("PROD-%03d", n*100+int64(i)+1),
			ProductCode:        fmt.Sprintf("%s-%04d", strings.ToUpper(category), rng.Intn(9000)+1000),
			ProductName:        fmt.Sprintf("%s %s %s", category, brand, model),
			ProductDescription: fmt.Sprintf("%s %s %s, premium features and modern design", category, brand, model),
			Quantity:           rng.Intn(3) + 1,
			UnitOfMeasure:      "PC",
			UnitPrice:          decimal.NewFromFloat(rng.Float64()*1500 + 50).Round(2),
			DiscountPercentage: discountPct,
			TaxPercentage:      taxPct,
		}
		lines = append(lines, line.ComputeTotals())
	}

	discount := decimal.Zero
	if rng.Intn(100) < 30 {
		discount = decimal.NewFromFloat(rng.Float64() * 100).Round(2)
	}
	shippingCost := decimal.Zero
	if rng.Intn(100) < 70 {
		shippingCost = decimal.NewFromFloat(rng.Float64() * 30).Round(2)
	}

	createdAt := now.UTC().Add(-time.Duration(rng.Intn(90*24)) * time.Hour)
	order := Order{
		Version:         1,
		OrderNumber:     orderNumber,
		OrderDate:       createdAt,
		CustomerID:      customerID,
		CustomerName:    firstName + " " + lastName,
		CustomerEmail:   strings.ToLower(firstName) + "." + strings.ToLower(lastName) + "@example.com",
		ShippingAddress: shipping,
		BillingAddress:  billing,
		Status:          StatusPending,
		PaymentMethod:   samplePayments[rng.Intn(len(samplePayments))],
		Currency:        "EUR",
		OrderLines:      lines,
		DiscountAmount:  discount,
		ShippingCost:    shippingCost,
		CreatedAt:       createdAt,
		CreatedBy:       fmt.Sprintf("user%03d", rng.Intn(99)+1),
	}
	if rng.Intn(100) < 40 {
		order.Notes = sampleNotes[rng.Intn(len(sampleNotes))]
	}
	if rng.Intn(100) < 80 {
		order.DeliveryDate = createdAt.Add(time.Duration(rng.Intn(11)+3) * 24 * time.Hour)
	}
	return order.ComputeTotals()
}
