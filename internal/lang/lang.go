package lang

import "fmt"

// T resolves a user-facing message for a chat language, falling back to
// English for unknown languages or missing keys.
func T(language, key string, args ...interface{}) string {
	table, ok := catalog[language]
	if !ok {
		table = catalog["en"]
	}
	msg, ok := table[key]
	if !ok {
		msg = catalog["en"][key]
	}
	if msg == "" {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

var catalog = map[string]map[string]string{
	"en": {
		"greeting":             "Hello! I am a media download bot.\nSend me a video link to get started.",
		"not_authorized":       "Sorry, you don't have access to this bot.",
		"join_channel":         "To use this bot you need to be a member of %s.",
		"membership_failed":    "Could not verify your channel membership, try again later.",
		"key_missing":          "Your access key was not found on the server, creating a new one.",
		"key_created":          "A new access key was created for you.",
		"key_failed":           "Could not provision an access key: %s",
		"send_link":            "Please send a video link.",
		"unknown_source":       "I can't recognize the source of that link.\nPlease make sure you sent a valid video URL.",
		"choose_type":          "Source: %s.\nChoose what to save:",
		"fetching_info":        "Fetching media info, please wait...",
		"info_failed":          "Failed to fetch media info.\nPlease try again with another link.",
		"choose_duration":      "This is a live stream. Choose a recording length:",
		"choose_video_quality": "Choose video quality:",
		"choose_audio_quality": "Choose audio quality:",
		"choose_output":        "Choose output format:",
		"enter_start":          "Send the start time as HH:MM:SS, or - for the beginning.",
		"enter_end":            "Send the end time as HH:MM:SS, or - for the end.",
		"bad_timestamp":        "That doesn't look like a valid time. Use HH:MM:SS (minutes and seconds up to 59), or -.",
		"end_before_start":     "The end time must be after the start time. Send a later end time.",
		"choose_crop":          "Choose trimming precision:",
		"task_created":         "Download task created.\nWaiting for it to finish...",
		"task_failed":          "Something went wrong while processing your request.\nPlease try again.",
		"video_caption":        "Your video is ready!",
		"audio_caption":        "Your audio is ready!",
		"gif_caption":          "Your animation is ready!",
		"too_large_link":       "The file is too large to send here, use this link instead:\n%s",
		"too_large_denied":     "The file is too large to send here, and link delivery requires premium access.",
		"send_another":         "If you have more requests, just send another link.",
		"admin_panel":          "Admin panel:",
		"admin_denied":         "Sorry, you don't have access to the admin panel.",
		"admin_create_usage":   "Send the username for the new key (optionally followed by permissions).",
		"admin_delete_usage":   "Send the username whose key should be deleted.",
		"admin_key_created":    "Key created for %s.",
		"admin_key_deleted":    "Key for %s deleted.",
		"admin_op_failed":      "Key operation failed: %s",
	},
	"ru": {
		"greeting":             "Здравствуйте! Я бот для загрузки медиафайлов.\nОтправьте ссылку на видео, чтобы начать.",
		"not_authorized":       "Извините, у вас нет доступа к этому боту.",
		"join_channel":         "Для использования бота вам необходимо быть подписанным на канал: %s.",
		"send_link":            "Пожалуйста, отправьте ссылку на видео.",
		"unknown_source":       "Извините, я не могу определить источник по этой ссылке.\nПожалуйста, убедитесь, что вы отправили корректную ссылку.",
		"choose_type":          "Обнаружен сервис: %s.\nВыберите формат для сохранения:",
		"fetching_info":        "Получение информации о видео.\nПожалуйста, подождите.",
		"choose_video_quality": "Выберите качество видео:",
		"choose_audio_quality": "Выберите качество аудио:",
		"choose_output":        "Выберите формат файла:",
		"info_failed":          "Произошла ошибка при получении информации о видео.\nПожалуйста, попробуйте еще раз.",
		"task_created":         "Задача на загрузку создана.\nОжидаем завершения...",
		"task_failed":          "Произошла ошибка при обработке запроса.\nПожалуйста, попробуйте еще раз.",
		"video_caption":        "Ваше видео готово!",
		"audio_caption":        "Ваше аудио готово!",
		"too_large_link":       "Файл слишком большой для отправки, вот ваша ссылка на файл:\n%s",
		"too_large_denied":     "Файл слишком большой для отправки, а доставка по ссылке доступна только премиум-пользователям.",
		"send_another":         "Если у вас есть еще запросы, пожалуйста, отправьте новую ссылку.",
	},
}
