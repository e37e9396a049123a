package generate

// Prompts instruct the model to produce two Persian posts separated by
// explicit markers; SplitPosts keys on the same markers.
const (
	// PostOneMarker and PostTwoMarker delimit the two posts in the
	// model output.
	PostOneMarker = "[پست ۱]"
	PostTwoMarker = "[پست ۲]"

	// legacy dashed markers some models produce despite instructions
	legacyPostOneMarker = "--- پست ۱ ---"
	legacyPostTwoMarker = "--- پست ۲ ---"

	systemPrompt = `تو یک تولیدکننده محتوای آموزشی هستی. وظیفه‌ات:
1. دو پست جذاب و مفید بنویس
2. لحن دوستانه و ساده باشه
3. از ایموجی استفاده کن
4. هر پست حداکثر 250 کلمه
5. اگر منابع یا لینک مفیدی داری، انتهای هر پست با عنوان 'منابع:' و به صورت لیست لینک بده
6. مثال واقعی و کاربردی بیار
7. خروجی رو طوری بنویس که برای کاربر تلگرام قابل فهم و جذاب باشه`

	userPromptFormat = `موضوع: %s

اطلاعات: %s

دو پست آموزشی بنویس:
پست اول: معرفی کلی موضوع با مثال
پست دوم: نکات عملی و کاربردی با مثال
هر پست رو با [پست ۱] یا [پست ۲] شروع کن. اگر منابع داری، انتهای هر پست لیست کن.`

	// closingLine pads a wrapped single post when no segment survives
	// the minimum-length floor.
	closingLine = "💡 برای اطلاعات بیشتر، منابع معتبر را مطالعه کنید."
)
