package email

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/example/storefront-api/internal/events"
)

// BuildOrderBody builds the HTML body shared by the order and payment
// confirmation mails.
func BuildOrderBody(heading, orderNumber string, total decimal.Decimal, lines []events.Line) string {
	var rows strings.Builder
	for _, line := range lines {
		name := line.ProductName
		if line.VariantSize != "" {
			name = fmt.Sprintf("%s (size %s)", name, line.VariantSize)
		}
		rows.WriteString(fmt.Sprintf(
			`<tr>
				<td style="padding: 12px; border-bottom: 1px solid #eee;">%s</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">%s</td>
			</tr>`,
			html.EscapeString(name),
			line.Quantity,
			formatAmount(line.LineTotal),
		))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">%s</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #666;">Order number</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">%s</p>
		</div>

		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background: #f8f9fa;">
					<th style="padding: 12px; text-align: left; font-weight: 600;">Item</th>
					<th style="padding: 12px; text-align: center; font-weight: 600;">Qty</th>
					<th style="padding: 12px; text-align: right; font-weight: 600;">Total</th>
				</tr>
			</thead>
			<tbody>
				%s
			</tbody>
		</table>

		<div style="text-align: right; padding: 20px; background: #f8f9fa; border-radius: 5px;">
			<span style="font-size: 14px; color: #666;">Grand total</span>
			<span style="font-size: 24px; font-weight: bold; color: #667eea; margin-left: 10px;">%s</span>
		</div>

		<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">

		<p style="font-size: 12px; color: #999; margin-bottom: 0;">
			This is an automated message. If anything looks wrong, please contact support.
		</p>
	</div>
</body>
</html>`, html.EscapeString(heading), html.EscapeString(orderNumber), rows.String(), formatAmount(total))
}

// BuildSettlementAlertBody builds the plain operations alert for a
// failed settlement.
func BuildSettlementAlertBody(evt events.SettlementFailed) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: monospace; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h1 style="font-size: 18px; color: #c0392b;">Captured payment could not be settled</h1>
	<p>This payment was captured at the gateway but no order was created. Manual intervention is required.</p>
	<table style="border-collapse: collapse;">
		<tr><td style="padding: 4px 12px 4px 0;">Payment</td><td>%s</td></tr>
		<tr><td style="padding: 4px 12px 4px 0;">Cart</td><td>%s</td></tr>
		<tr><td style="padding: 4px 12px 4px 0;">User</td><td>%s</td></tr>
		<tr><td style="padding: 4px 12px 4px 0;">Reason</td><td>%s</td></tr>
	</table>
</body>
</html>`,
		html.EscapeString(evt.GatewayPaymentID),
		html.EscapeString(evt.CartID),
		html.EscapeString(evt.UserID),
		html.EscapeString(evt.Reason),
	)
}

func formatAmount(d decimal.Decimal) string {
	return "€" + d.StringFixed(2)
}
