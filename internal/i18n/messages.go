package i18n

// Message keys.
const (
	KeyStart             = "start"
	KeyHelp              = "help"
	KeyHelpAdmin         = "help_admin"
	KeyContact           = "contact"
	KeyNoProducts        = "no_products"
	KeyProductLine       = "product_line"
	KeyBuy               = "buy"
	KeySendProof         = "send_payment_proof"
	KeySelectFirst       = "select_product_first"
	KeyProofSubmitted    = "payment_submitted"
	KeyProofCaption      = "proof_caption"
	KeyApproveButton     = "approve_button"
	KeyRejectButton      = "reject_button"
	KeyApproveUsage      = "approve_usage"
	KeyApproved          = "approved"
	KeyRejectUsage       = "reject_usage"
	KeyRejected          = "rejected"
	KeyPendingNotFound   = "pending_not_found"
	KeyPendingEmpty      = "pending_empty"
	KeyPendingLine       = "pending_line"
	KeyCodeUsage         = "code_usage"
	KeyCode              = "code"
	KeyCodeButton        = "code_button"
	KeyCredentials       = "credentials"
	KeyUseCode           = "use_code"
	KeyProductNotFound   = "product_not_found"
	KeyProductExists     = "product_exists"
	KeyNotPurchased      = "not_purchased"
	KeyNoTOTP            = "no_totp"
	KeyInvalidSecret     = "invalid_secret"
	KeyInvalidInput      = "invalid_input"
	KeyAddProductUsage   = "addproduct_usage"
	KeyProductAdded      = "product_added"
	KeyAskID             = "ask_id"
	KeyAskPrice          = "ask_price"
	KeyAskUsername       = "ask_username"
	KeyAskPassword       = "ask_password"
	KeyAskSecret         = "ask_secret"
	KeyAskName           = "ask_name"
	KeyCancelButton      = "cancel_button"
	KeyCancelled         = "cancelled"
	KeyNothingToCancel   = "nothing_to_cancel"
	KeyEditProductUsage  = "editproduct_usage"
	KeyInvalidField      = "invalid_field"
	KeyProductUpdated    = "product_updated"
	KeyDeleteUsage       = "deleteproduct_usage"
	KeyProductDeleted    = "product_deleted"
	KeyResendUsage       = "resend_usage"
	KeyResendButton      = "resend_button"
	KeyInvalidUserID     = "invalid_user_id"
	KeyNoBuyers          = "no_buyers"
	KeyCredentialsResent = "credentials_resent"
	KeyStatsUsage        = "stats_usage"
	KeyStats             = "stats"
	KeyBuyersUsage       = "buyers_usage"
	KeyBuyersList        = "buyers_list"
	KeyNoBuyersList      = "no_buyers_list"
	KeyDeleteBuyerUsage  = "deletebuyer_usage"
	KeyBuyerRemoved      = "buyer_removed"
	KeyBuyerNotFound     = "buyer_not_found"
	KeyClearBuyersUsage  = "clearbuyers_usage"
	KeyAllBuyersRemoved  = "all_buyers_removed"
	KeyHistoryUsage      = "history_usage"
	KeyHistoryEmpty      = "history_empty"
	KeyHistoryLine       = "history_line"
	KeyLanguageUsage     = "language_usage"
	KeyLanguageSet       = "language_set"
	KeyLanguagesSupport  = "languages_supported"
	KeyUnauthorized      = "unauthorized"
	KeyUnknownCommand    = "unknown_command"
	KeyInternalError     = "internal_error"
	KeySlowDown          = "slow_down"
)

// english is the reference catalog. Every key has an entry here.
var english = map[string]string{
	KeyStart:     "Welcome! Use /products to list products.",
	KeyHelp:      "Commands:\n/products - list products\n/code <product_id> - current authenticator code\n/setlanguage <en|fa> - change language\n/contact - admin contact\n/cancel - cancel the current action",
	KeyHelpAdmin: "Admin commands:\n/addproduct [<id> <price> <username> <password> <secret> [name]]\n/editproduct <id> <field> <value>\n/deleteproduct <id>\n/approve <user_id> <product_id>\n/reject <user_id> <product_id>\n/pending\n/buyers <product_id>\n/deletebuyer <product_id> <user_id>\n/clearbuyers <product_id>\n/resend <product_id> [user_id]\n/stats <product_id>\n/history <product_id>",
	KeyContact:   "Admin phone: %s",

	KeyNoProducts:     "No products available",
	KeyProductLine:    "%s: %s\n%s",
	KeyBuy:            "Buy",
	KeySendProof:      "Send payment proof as a photo to proceed.",
	KeySelectFirst:    "Choose a product with /products before sending a payment photo.",
	KeyProofSubmitted: "Payment submitted. Wait for admin approval.",
	KeyProofCaption:   "Payment proof from %s for %s\n/approve %s %s",
	KeyApproveButton:  "Approve",
	KeyRejectButton:   "Reject",

	KeyApproveUsage:    "Usage: /approve <user_id> <product_id>",
	KeyApproved:        "Approved.",
	KeyRejectUsage:     "Usage: /reject <user_id> <product_id>",
	KeyRejected:        "Rejected.",
	KeyPendingNotFound: "Pending purchase not found.",
	KeyPendingEmpty:    "No pending purchases.",
	KeyPendingLine:     "%s: user %s, product %s",

	KeyCodeUsage:       "Usage: /code <product_id>",
	KeyCode:            "Code: %s",
	KeyCodeButton:      "Get code",
	KeyCredentials:     "Username: %s\nPassword: %s",
	KeyUseCode:         "Use /code %s to get your current authenticator code.",
	KeyProductNotFound: "Product not found",
	KeyProductExists:   "Product already exists",
	KeyNotPurchased:    "You have not purchased this product.",
	KeyNoTOTP:          "No TOTP secret set for this product.",
	KeyInvalidSecret:   "The TOTP secret for this product is invalid.",
	KeyInvalidInput:    "Missing or invalid value.",

	KeyAddProductUsage: "Usage: /addproduct <id> <price> <username> <password> <secret> [name]",
	KeyProductAdded:    "Product added",
	KeyAskID:           "Send product id",
	KeyAskPrice:        "Send price",
	KeyAskUsername:     "Send username",
	KeyAskPassword:     "Send password",
	KeyAskSecret:       "Send secret",
	KeyAskName:         "Send name or - to skip",
	KeyCancelButton:    "Cancel",
	KeyCancelled:       "Cancelled",
	KeyNothingToCancel: "Nothing to cancel.",

	KeyEditProductUsage: "Usage: /editproduct <id> <field> <value>\nFields: price, username, password, secret, name",
	KeyInvalidField:     "Invalid field",
	KeyProductUpdated:   "Product updated",
	KeyDeleteUsage:      "Usage: /deleteproduct <id>",
	KeyProductDeleted:   "Product deleted",

	KeyResendUsage:       "Usage: /resend <product_id> [user_id]",
	KeyResendButton:      "Resend to %s",
	KeyInvalidUserID:     "Invalid user id",
	KeyNoBuyers:          "No buyers to send to",
	KeyCredentialsResent: "Credentials resent to %s buyer(s)",

	KeyStatsUsage:       "Usage: /stats <product_id>",
	KeyStats:            "Price: %s\nTotal buyers: %s\nPending: %s",
	KeyBuyersUsage:      "Usage: /buyers <product_id>",
	KeyBuyersList:       "Buyers: %s",
	KeyNoBuyersList:     "No buyers",
	KeyDeleteBuyerUsage: "Usage: /deletebuyer <product_id> <user_id>",
	KeyBuyerRemoved:     "Buyer removed",
	KeyBuyerNotFound:    "Buyer not found",
	KeyClearBuyersUsage: "Usage: /clearbuyers <product_id>",
	KeyAllBuyersRemoved: "All buyers removed",

	KeyHistoryUsage: "Usage: /history <product_id>",
	KeyHistoryEmpty: "No history for this product.",
	KeyHistoryLine:  "%s %s user %s",

	KeyLanguageUsage:    "Usage: /setlanguage <en|fa>",
	KeyLanguageSet:      "Language set to %s.",
	KeyLanguagesSupport: "Supported languages: en, fa",

	KeyUnauthorized:   "Unauthorized",
	KeyUnknownCommand: "Unknown command. Use /help to see what I understand.",
	KeyInternalError:  "Something went wrong. Please try again later.",
	KeySlowDown:       "Too many requests, please slow down.",
}

var persian = map[string]string{
	KeyStart:     "خوش آمدید! از دستور /products برای مشاهده محصولات استفاده کنید.",
	KeyHelp:      "دستورات:\n/products - فهرست محصولات\n/code <product_id> - کد احراز هویت فعلی\n/setlanguage <en|fa> - تغییر زبان\n/contact - تماس با مدیر\n/cancel - لغو عملیات جاری",
	KeyHelpAdmin: "دستورات مدیر:\n/addproduct [<id> <price> <username> <password> <secret> [name]]\n/editproduct <id> <field> <value>\n/deleteproduct <id>\n/approve <user_id> <product_id>\n/reject <user_id> <product_id>\n/pending\n/buyers <product_id>\n/deletebuyer <product_id> <user_id>\n/clearbuyers <product_id>\n/resend <product_id> [user_id]\n/stats <product_id>\n/history <product_id>",
	KeyContact:   "شماره مدیر: %s",

	KeyNoProducts:     "محصولی موجود نیست",
	KeyProductLine:    "%s: %s\n%s",
	KeyBuy:            "خرید",
	KeySendProof:      "برای ادامه، رسید پرداخت را به صورت عکس ارسال کنید.",
	KeySelectFirst:    "پیش از ارسال رسید، با /products یک محصول انتخاب کنید.",
	KeyProofSubmitted: "پرداخت ارسال شد. منتظر تأیید مدیر بمانید.",
	KeyProofCaption:   "رسید پرداخت از %s برای %s\n/approve %s %s",
	KeyApproveButton:  "تأیید",
	KeyRejectButton:   "رد",

	KeyApproveUsage:    "استفاده: /approve <user_id> <product_id>",
	KeyApproved:        "تأیید شد.",
	KeyRejectUsage:     "استفاده: /reject <user_id> <product_id>",
	KeyRejected:        "رد شد.",
	KeyPendingNotFound: "پرداخت در انتظار یافت نشد.",
	KeyPendingEmpty:    "پرداخت در انتظاری وجود ندارد.",
	KeyPendingLine:     "%s: کاربر %s، محصول %s",

	KeyCodeUsage:       "استفاده: /code <product_id>",
	KeyCode:            "کد: %s",
	KeyCodeButton:      "دریافت کد",
	KeyCredentials:     "نام کاربری: %s\nرمز عبور: %s",
	KeyUseCode:         "برای دریافت کد احراز هویت از دستور /code %s استفاده کنید.",
	KeyProductNotFound: "محصول پیدا نشد",
	KeyProductExists:   "این محصول از قبل وجود دارد",
	KeyNotPurchased:    "شما این محصول را نخریده‌اید.",
	KeyNoTOTP:          "رمز TOTP برای این محصول تنظیم نشده است.",
	KeyInvalidSecret:   "رمز TOTP این محصول نامعتبر است.",
	KeyInvalidInput:    "مقدار خالی یا نامعتبر است.",

	KeyAddProductUsage: "استفاده: /addproduct <id> <price> <username> <password> <secret> [name]",
	KeyProductAdded:    "محصول اضافه شد",
	KeyAskID:           "شناسه محصول را بفرستید",
	KeyAskPrice:        "قیمت را بفرستید",
	KeyAskUsername:     "نام کاربری را بفرستید",
	KeyAskPassword:     "رمز عبور را بفرستید",
	KeyAskSecret:       "رمز TOTP را بفرستید",
	KeyAskName:         "نام را بفرستید یا برای رد شدن - بفرستید",
	KeyCancelButton:    "Cancel",
	KeyCancelled:       "لغو شد",
	KeyNothingToCancel: "چیزی برای لغو وجود ندارد.",

	KeyEditProductUsage: "استفاده: /editproduct <id> <field> <value>\nفیلدها: price, username, password, secret, name",
	KeyInvalidField:     "فیلد نامعتبر است",
	KeyProductUpdated:   "محصول به‌روزرسانی شد",
	KeyDeleteUsage:      "استفاده: /deleteproduct <id>",
	KeyProductDeleted:   "محصول حذف شد",

	KeyResendUsage:       "استفاده: /resend <product_id> [user_id]",
	KeyResendButton:      "ارسال دوباره به %s",
	KeyInvalidUserID:     "آی‌دی کاربر نامعتبر است",
	KeyNoBuyers:          "خریداری برای ارسال وجود ندارد",
	KeyCredentialsResent: "اطلاعات دوباره برای %s خریدار ارسال شد",

	KeyStatsUsage:       "استفاده: /stats <product_id>",
	KeyStats:            "قیمت: %s\nتعداد خریداران: %s\nدر انتظار: %s",
	KeyBuyersUsage:      "استفاده: /buyers <product_id>",
	KeyBuyersList:       "خریداران: %s",
	KeyNoBuyersList:     "خریداری وجود ندارد",
	KeyDeleteBuyerUsage: "استفاده: /deletebuyer <product_id> <user_id>",
	KeyBuyerRemoved:     "خریدار حذف شد",
	KeyBuyerNotFound:    "خریدار پیدا نشد",
	KeyClearBuyersUsage: "استفاده: /clearbuyers <product_id>",
	KeyAllBuyersRemoved: "تمام خریداران حذف شدند",

	KeyHistoryUsage: "استفاده: /history <product_id>",
	KeyHistoryEmpty: "سابقه‌ای برای این محصول وجود ندارد.",
	KeyHistoryLine:  "%s %s کاربر %s",

	KeyLanguageUsage:    "استفاده: /setlanguage <en|fa>",
	KeyLanguageSet:      "زبان به %s تغییر یافت.",
	KeyLanguagesSupport: "زبان‌های پشتیبانی‌شده: en, fa",

	KeyUnauthorized:   "دسترسی غیرمجاز",
	KeyUnknownCommand: "دستور ناشناخته است. برای راهنما /help را بفرستید.",
	KeyInternalError:  "خطایی رخ داد. لطفاً بعداً دوباره تلاش کنید.",
	KeySlowDown:       "درخواست‌ها زیاد است، لطفاً کمی صبر کنید.",
}
