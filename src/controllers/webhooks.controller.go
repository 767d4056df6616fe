package controllers

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"

	"sbs/src/survey"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

const emptyTwiML = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`

// TwilioInboundWebhook receives an inbound SMS from Twilio's form-encoded
// webhook. The provider expects a TwiML document back immediately, so the
// conversation turn is processed asynchronously; replies go out through the
// configured channel, never in the webhook response.
func TwilioInboundWebhook(ctx *gin.Context) {
	msg := survey.InboundMessage{
		From:      ctx.PostForm("From"),
		Body:      ctx.PostForm("Body"),
		MessageID: ctx.PostForm("MessageSid"),
	}
	if msg.From == "" || msg.Body == "" {
		ctx.Status(http.StatusBadRequest)
		return
	}
	go surveyEngine.HandleInbound(context.Background(), msg)
	ctx.Data(http.StatusOK, "text/xml", []byte(emptyTwiML))
}

// MetaVerifyWebhook answers the WhatsApp Cloud API subscription handshake.
func MetaVerifyWebhook(ctx *gin.Context) {
	mode := ctx.Query("hub.mode")
	token := ctx.Query("hub.verify_token")
	if mode != "subscribe" || token != os.Getenv("WHATSAPP_VERIFY_TOKEN") {
		ctx.Status(http.StatusForbidden)
		return
	}
	ctx.String(http.StatusOK, ctx.Query("hub.challenge"))
}

// MetaInboundWebhook receives WhatsApp Cloud API notifications. One delivery
// can batch several messages; each is dispatched independently. Status-only
// notifications carry no messages array and are acknowledged as-is.
func MetaInboundWebhook(ctx *gin.Context) {
	raw, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ctx.Status(http.StatusBadRequest)
		return
	}

	gjson.GetBytes(raw, "entry").ForEach(func(_, entry gjson.Result) bool {
		entry.Get("changes").ForEach(func(_, change gjson.Result) bool {
			change.Get("value.messages").ForEach(func(_, m gjson.Result) bool {
				msg := survey.InboundMessage{
					From:      m.Get("from").String(),
					Body:      m.Get("text.body").String(),
					MessageID: m.Get("id").String(),
				}
				if msg.From == "" || msg.Body == "" {
					log.Printf("[webhook] skipping non-text message %s\n", msg.MessageID)
					return true
				}
				go surveyEngine.HandleInbound(context.Background(), msg)
				return true
			})
			return true
		})
		return true
	})

	ctx.Status(http.StatusOK)
}
