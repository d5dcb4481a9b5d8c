// Package i18n holds the user-facing message catalog for the bot in every
// supported locale. The locale is also the matching key: users are only
// paired with partners who registered the same language code.
package i18n

// Default is the locale assumed for unknown users and missing translations.
const Default = "en"

// Supported lists the closed set of locale codes, in menu order.
var Supported = []string{"en", "ar", "es"}

// IsSupported reports whether code is one of the supported locale codes.
func IsSupported(code string) bool {
	for _, c := range Supported {
		if c == code {
			return true
		}
	}
	return false
}

// Normalize maps an arbitrary language tag to a supported locale code,
// falling back to Default.
func Normalize(code string) string {
	if IsSupported(code) {
		return code
	}
	return Default
}

// T returns the message for key in the given locale. Unknown locales fall
// back to the default locale; unknown keys fall back to the default locale's
// entry and finally to a visible placeholder.
func T(lang, key string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	if s, ok := messages[Default][key]; ok {
		return s
	}
	return "MISSING TRANSLATION"
}

// LanguageName returns the display name of a locale for selection menus.
func LanguageName(lang string) string {
	return T(lang, "language_name")
}

var messages = map[string]map[string]string{
	"en": {
		"language_name":           "English 🇬🇧",
		"welcome":                 "Welcome to 🎲 *Random Partner*\nThe anonymous Chat Bot!\n\nPress 'Search' to find a partner.",
		"already_in_chat":         "You are currently in a chat. Use the buttons below.",
		"already_searching":       "You are currently in the waiting queue. Use the buttons below.",
		"search_btn":              "Search 🔎",
		"next_btn":                "Next 🎲",
		"stop_btn":                "Stop ⏹️",
		"block_btn":               "Block User 🚫",
		"search_already_in_chat":  "You are already in a chat! Press 'Stop' or 'Next' first.",
		"search_already_searching": "You are already searching. Please wait...",
		"search_wait":             "🔎 Searching for a partner... Please wait.",
		"partner_found":           "✅ Partner found! The chat has started. (You are anonymous).",
		"end_msg_user":            "🔚 You have ended the chat.",
		"end_msg_partner":         "⚠️ Your partner has left the chat.",
		"end_search_cancel":       "Search cancelled.",
		"end_not_in_chat":         "You are not currently in a chat or searching.",
		"link_blocked":            "⛔️ You cannot send links (URLs) in anonymous chat.",
		"username_blocked":        "⛔️ You cannot send user identifiers (usernames) in anonymous chat.",
		"settings_text":           "🌐 *Language Settings*\n\nSelect your preferred language for the bot's interface and for matching partners:",
		"settings_saved":          "✅ Language updated to %s. Press /start to see the changes.",
		"admin_denied":            "🚫 Access denied. This command is for the administrator only.",
		"globally_banned":         "🚫 Your access to this bot has been suspended permanently.",
		"use_buttons_msg":         "Use the buttons below to control the chat:",
		"initial_selection_msg":   "🌐 *Welcome to the Anonymous Chat Bot!*\n\nPlease select your preferred language to continue the setup:",
		"cancel_op_btn":           "❌ Cancel",
		"join_channel_msg":        "👋 *Welcome to Random Partner 🎲!*\n\nTo use this bot, you are required to join our official channel.\n\nPlease join the channel using the button below, then press '✅ I have joined'.",
		"join_channel_btn":        "Join Channel",
		"joined_btn":              "I have joined",
		"joined_success":          "🎉 *Thank you for joining!*\n\nYou can now use the bot. Press /start or use the buttons below.",
		"join_not_member":         "❌ You have not joined the channel yet.",
		"block_confirm_text":      "🚫 *CONFIRM BLOCK AND REPORT*\n\nAre you sure you want to block the current partner and send a report for review?\n\n_(This action will end the chat immediately.)_",
		"block_cancelled":         "🚫 Block/Report operation cancelled. You can continue chatting.",
		"block_success":           "🛑 Thank you! The user has been blocked and the chat has ended.\n\nYour report has been successfully sent for review.\n\nPress Next 🎲 to find a new partner.",
		"next_msg_user":           "🔎 Searching for a new partner...",
		"next_already_searching":  "You are already searching. Please wait...",
		"block_not_in_chat":       "You are not currently in a chat to block anyone.",
		"block_while_searching":   "You cannot block anyone while searching. Use 'Stop ⏹️' first.",
		"unreachable_partner":     "Your partner seems to have blocked the bot or left Telegram. The chat has ended.",
		"not_in_chat_msg":         "You are not in a chat. Press 'Search' to find a partner.",
		"send_failed":             "Sorry, your message failed to send. (Your partner may be temporarily unreachable).",
		"partner_prefix":          "Random partner🎲 : ",
	},
	"ar": {
		"language_name":           "العربية 🇸🇦",
		"welcome":                 "مرحباً بك في 🎲 *شريك عشوائي*\nبوت الدردشة المجهول!\n\nاضغط 'بحث' للعثور على شريك.",
		"already_in_chat":         "أنت حالياً في محادثة. استخدم الأزرار أدناه.",
		"already_searching":       "أنت حالياً في قائمة الانتظار. استخدم الأزرار أدناه.",
		"search_btn":              "بحث 🔎",
		"next_btn":                "التالي 🎲",
		"stop_btn":                "إيقاف ⏹️",
		"block_btn":               "حظر مستخدم 🚫",
		"search_already_in_chat":  "أنت بالفعل في محادثة! اضغط 'إيقاف' أو 'التالي' أولاً.",
		"search_already_searching": "أنت بالفعل تبحث. يرجى الانتظار...",
		"search_wait":             "🔎 البحث عن شريك... يرجى الانتظار.",
		"partner_found":           "✅ تم العثور على شريك! بدأت المحادثة. (أنت مجهول).",
		"end_msg_user":            "🔚 لقد أنهيت المحادثة.",
		"end_msg_partner":         "⚠️ لقد غادر شريكك المحادثة.",
		"end_search_cancel":       "تم إلغاء البحث.",
		"end_not_in_chat":         "أنت لست في محادثة حالياً ولا تبحث.",
		"link_blocked":            "⛔️ لا يمكنك إرسال روابط (URLs) في الدردشة المجهولة.",
		"username_blocked":        "⛔️ لا يمكنك إرسال معرفات مستخدمين (usernames) في الدردشة المجهولة.",
		"settings_text":           "🌐 *إعدادات اللغة*\n\nاختر لغتك المفضلة لواجهة البوت وللمطابقة مع الشركاء:",
		"settings_saved":          "✅ تم تحديث اللغة إلى %s. اضغط /start لرؤية التغييرات.",
		"admin_denied":            "🚫 الوصول مرفوض. هذا الأمر مخصص للمدير فقط.",
		"globally_banned":         "🚫 تم إيقاف وصولك إلى هذا البوت بشكل دائم.",
		"use_buttons_msg":         "استخدم الأزرار أدناه للتحكم في الدردشة:",
		"initial_selection_msg":   "🌐 *مرحباً بك في بوت الدردشة العشوائية!*\n\nالرجاء اختيار لغتك المفضلة للمتابعة:",
		"cancel_op_btn":           "❌ إلغاء",
		"join_channel_msg":        "👋 *مرحباً بك في شريك عشوائي 🎲!*\n\nلاستخدام هذا البوت، يجب عليك الانضمام إلى قناتنا الرسمية.\n\nيرجى الانضمام للقناة عبر الزر أدناه، ثم اضغط '✅ لقد انضممت'.",
		"join_channel_btn":        "انضم للقناة",
		"joined_btn":              "لقد انضممت",
		"joined_success":          "🎉 *شكراً لانضمامك!*\n\nيمكنك الآن استخدام البوت. اضغط /start أو استخدم الأزرار أدناه.",
		"join_not_member":         "❌ لم تنضم إلى القناة بعد.",
		"block_confirm_text":      "🚫 *تأكيد الحظر والإبلاغ*\n\nهل أنت متأكد أنك تريد حظر الشريك الحالي وإرسال تقرير للمراجعة؟\n\n_(سيؤدي هذا الإجراء إلى إنهاء المحادثة فوراً.)_",
		"block_cancelled":         "🚫 تم إلغاء عملية الحظر/الإبلاغ. يمكنك متابعة الدردشة.",
		"block_success":           "🛑 شكراً لك! تم حظر المستخدم وتم إنهاء المحادثة.\n\nتم إرسال تقريرك للمراجعة بنجاح.\n\nاضغط التالي 🎲 للعثور على شريك جديد.",
		"next_msg_user":           "🔎 البحث عن شريك جديد...",
		"next_already_searching":  "أنت بالفعل تبحث. يرجى الانتظار...",
		"block_not_in_chat":       "أنت لست حالياً في محادثة لحظر أي شخص.",
		"block_while_searching":   "لا يمكنك الحظر أثناء البحث. استخدم 'إيقاف ⏹️' أولاً.",
		"unreachable_partner":     "يبدو أن شريكك قام بحظر البوت أو غادر تيليجرام. انتهت المحادثة.",
		"not_in_chat_msg":         "أنت لست في محادثة. اضغط 'بحث' للعثور على شريك.",
		"send_failed":             "عذراً، تعذر إرسال رسالتك. (قد يكون شريكك غير متاح مؤقتاً).",
		"partner_prefix":          "صديق/ة🎲 : ",
	},
	"es": {
		"language_name":           "Español 🇪🇸",
		"welcome":                 "¡Bienvenido a 🎲 *Compañero Aleatorio*\nEl Bot de Chat Anónimo!\n\nPresiona 'Buscar' para encontrar un compañero.",
		"already_in_chat":         "Actualmente estás en un chat. Usa los botones de abajo.",
		"already_searching":       "Actualmente estás en la cola de espera. Usa los botones de abajo.",
		"search_btn":              "Buscar 🔎",
		"next_btn":                "Siguiente 🎲",
		"stop_btn":                "Parar ⏹️",
		"block_btn":               "Bloquear Usuario 🚫",
		"search_already_in_chat":  "¡Ya estás en un chat! Presiona 'Parar' o 'Siguiente' primero.",
		"search_already_searching": "Ya estás buscando. Por favor espera...",
		"search_wait":             "🔎 Buscando un compañero... Por favor espera.",
		"partner_found":           "✅ ¡Compañero encontrado! El chat ha comenzado. (Eres anónimo).",
		"end_msg_user":            "🔚 Has finalizado el chat.",
		"end_msg_partner":         "⚠️ Tu compañero ha abandonado el chat.",
		"end_search_cancel":       "Búsqueda cancelada.",
		"end_not_in_chat":         "Actualmente no estás en un chat ni buscando.",
		"link_blocked":            "⛔️ No puedes enviar enlaces (URLs) en el chat anónimo.",
		"username_blocked":        "⛔️ No puedes enviar identificadores de usuario (usernames) en el chat anónimo.",
		"settings_text":           "🌐 *Configuración de Idioma*\n\nSelecciona tu idioma preferido para la interfaz del bot y para emparejarte con compañeros:",
		"settings_saved":          "✅ Idioma actualizado a %s. Presiona /start para ver los cambios.",
		"admin_denied":            "🚫 Acceso denegado. Este comando es solo para el administrador.",
		"globally_banned":         "🚫 Tu acceso a este bot ha sido suspendido permanentemente.",
		"use_buttons_msg":         "Usa los botones de abajo para controlar el chat:",
		"initial_selection_msg":   "🌐 *¡Bienvenido al Bot de Chat Anónimo!*\n\nPor favor, selecciona tu idioma preferido para continuar con la configuración:",
		"cancel_op_btn":           "❌ Anular",
		"join_channel_msg":        "👋 *¡Bienvenido a Compañero Aleatorio 🎲!*\n\nPara usar este bot, se requiere que te unas a nuestro canal oficial.\n\nPor favor, únete al canal usando el botón de abajo, luego presiona '✅ Me he unido'.",
		"join_channel_btn":        "Unirse al Canal",
		"joined_btn":              "Me he unido",
		"joined_success":          "🎉 *¡Gracias por unirte!*\n\nAhora puedes usar el bot. Presiona /start o usa los botones de abajo.",
		"join_not_member":         "❌ Aún no te has unido al canal.",
		"block_confirm_text":      "🚫 *CONFIRMAR BLOQUEO E INFORME*\n\n¿Estás seguro de que quieres bloquear al compañero actual y enviar un informe para revisión?\n\n_(Esta acción finalizará el chat inmediatamente.)_",
		"block_cancelled":         "🚫 Operación de Bloqueo/Informe cancelada. Puedes seguir chateando.",
		"block_success":           "🛑 ¡Gracias! El usuario ha sido bloqueado y el chat ha finalizado.\n\nTu informe ha sido enviado para revisión exitosamente.\n\nPresiona Siguiente 🎲 para encontrar un nuevo compañero.",
		"next_msg_user":           "🔎 Buscando un nuevo compañero...",
		"next_already_searching":  "Ya estás buscando. Por favor espera...",
		"block_not_in_chat":       "No estás actualmente en un chat para bloquear a nadie.",
		"block_while_searching":   "No puedes bloquear a nadie mientras buscas. Usa 'Parar ⏹️' primero.",
		"unreachable_partner":     "Parece que tu compañero ha bloqueado al bot o dejó Telegram. El chat ha finalizado.",
		"not_in_chat_msg":         "No estás en un chat. Presiona 'Buscar' para encontrar un compañero.",
		"send_failed":             "Lo sentimos, tu mensaje no se pudo enviar. (Tu compañero puede estar temporalmente inaccesible).",
		"partner_prefix":          "tu amigo/a 🎲 : ",
	},
}
