package i18n

type Messages struct {
	AppShort       string
	AppLong        string
	PromptPatterns string
	PromptRegex    string
	NoPatterns     string
	NothingToDo    string
	Searching      string
	Interrupted    string
	VerifyShort    string
	VerifyOK       string
	VerifyFailed   string
	RestoreShort   string
	Restored       string
}

func Get(lang string) Messages {
	switch lang {
	case "ru":
		return Messages{
			AppShort:       "Генератор vanity-адресов .onion v3",
			AppLong:        "Перебирает ключи ed25519, пока адрес .onion не совпадёт с одним из префиксов (или regex с --regex).",
			PromptPatterns: "Префиксы через пробел (a-z, 2-7): ",
			PromptRegex:    "Регулярные выражения через пробел: ",
			NoPatterns:     "укажите хотя бы один префикс (или --yapper)",
			NothingToDo:    "Нечего делать (--count 0).",
			Searching:      "Поиск %d совпадений, воркеров: %d\n",
			Interrupted:    "Прервано, сохранено %d из %d\n",
			VerifyShort:    "Проверить экспортированные каталоги ключей",
			VerifyOK:       "OK",
			VerifyFailed:   "ОШИБКА",
			RestoreShort:   "Восстановить каталог ключей из 24 слов seed_mnemonic.txt",
			Restored:       "Восстановлено: %s\n",
		}
	default: // "en"
		return Messages{
			AppShort:       "Vanity v3 .onion address generator",
			AppLong:        "Generates ed25519 keys until the .onion address starts with one of the prefixes (or matches one of the regexes with --regex).",
			PromptPatterns: "Prefixes, space separated (a-z, 2-7): ",
			PromptRegex:    "Regular expressions, space separated: ",
			NoPatterns:     "provide at least one prefix (or use --yapper)",
			NothingToDo:    "Nothing to do (--count 0).",
			Searching:      "Searching for %d match(es) using %d workers\n",
			Interrupted:    "Interrupted, saved %d of %d\n",
			VerifyShort:    "Verify exported key directories",
			VerifyOK:       "OK",
			VerifyFailed:   "FAILED",
			RestoreShort:   "Rebuild a key directory from the 24 words of seed_mnemonic.txt",
			Restored:       "Restored: %s\n",
		}
	}
}
