// Package bot is the Telegram transport.
//
// It maps commands, inline-button callbacks and payment photos onto
// engine operations, renders replies in the user's language and delivers
// engine notices (credentials to buyers, payment proofs to the admin).
//
// Callback data formats:
//
//	buy:<product_id>
//	code:<product_id>
//	approve:<user_id>:<product_id>
//	reject:<user_id>:<product_id>
//	adminresend:<product_id>:<user_id>
package bot
