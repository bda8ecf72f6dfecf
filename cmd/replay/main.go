// cmd/replay/main.go
//
// Signs an order payload with the webhook secret and posts it to a running
// instance. Used for manual redelivery of a failed order and for verifying
// the signature check end to end (-tamper flips a byte after signing, so
// the endpoint must answer 401).
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/freelancermujtabaa/PicassoPet/internal/adapters/shopify"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	var (
		target = flag.String("url", "http://localhost:8080/webhooks/shopify/orders/create", "webhook endpoint to post to")
		file   = flag.String("file", "", "payload file; empty generates a sample order")
		secret = flag.String("secret", getenv("SHOPIFY_WEBHOOK_SECRET", ""), "webhook shared secret")
		tamper = flag.Bool("tamper", false, "flip one body byte after signing (expect 401)")
	)
	flag.Parse()

	if *secret == "" {
		log.Fatal("no secret: pass -secret or set SHOPIFY_WEBHOOK_SECRET")
	}

	var body []byte
	if *file != "" {
		b, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("read payload: %v", err)
		}
		body = b
	} else {
		body = sampleOrder()
	}

	signature := shopify.Sign(*secret, body)
	if *tamper {
		body = bytes.Replace(body, []byte("{"), []byte(" "), 1)
	}

	req, err := http.NewRequest(http.MethodPost, *target, bytes.NewReader(body))
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(shopify.SignatureHeader, signature)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	out, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	log.Printf("%s -> %d %s", *target, resp.StatusCode, string(out))
}

// sampleOrder builds a one-item order against a variant from the static
// mapping table. Random ids keep repeated runs from colliding in the
// ledger; the artwork URL gets a uuid for the same reason.
func sampleOrder() []byte {
	orderID := 9_000_000_000 + rand.Int63n(1_000_000_000)
	itemID := 14_000_000_000 + rand.Int63n(1_000_000_000)
	artwork := fmt.Sprintf("https://res.cloudinary.com/picassopet/image/upload/portrait-%s.jpg", uuid.New().String())

	payload := fmt.Sprintf(`{
  "id": %d,
  "email": "replay@picassopet.test",
  "currency": "USD",
  "subtotal_price": "25.00",
  "total_discounts": "0.00",
  "total_tax": "2.06",
  "total_price": "31.05",
  "created_at": %q,
  "shipping_lines": [{"price": "3.99"}],
  "shipping_address": {
    "first_name": "Replay",
    "last_name": "Tester",
    "address1": "19749 Dearborn St",
    "city": "Chatsworth",
    "province": "California",
    "province_code": "CA",
    "country": "United States",
    "country_code": "US",
    "zip": "91311",
    "phone": "+1 555 0100"
  },
  "line_items": [{
    "id": %d,
    "variant_id": 51871373918526,
    "quantity": 1,
    "price": "25.00",
    "name": "Framed canvas / Black / 8x10",
    "properties": [
      {"name": "_AI_Image_URL", "value": %q},
      {"name": "_User_Email", "value": "replay@picassopet.test"}
    ]
  }]
}`, orderID, time.Now().Format(time.RFC3339), itemID, artwork)

	return []byte(payload)
}
