// Package model defines the persisted document of the sales bot.
//
// The document holds three collections:
//   - products: product id to Product (price, credentials, OTP seed, buyers)
//   - pending: purchase requests in submission order
//   - languages: user id (decimal string) to language code
//
// The JSON layout matches the data file written by earlier releases of the
// bot, so existing data files load without migration.
package model
