package config

import "time"

// Default values for optional configuration parameters. The bot speaks
// Persian by default; every string here can be overridden in
// config.yaml.
const (
	DefaultLogLevel = "info"

	DefaultAIBackend          = "openai"
	DefaultAIBaseURL          = "https://api.metisai.ir/openai/v1"
	DefaultAIModel            = "gpt-4o"
	DefaultAITemperature      = 0.7
	DefaultAIMaxTokens        = 1000
	DefaultAITimeout          = 45 * time.Second
	DefaultAIMaxResearchChars = 3000

	DefaultRetryAttempts      = 3
	DefaultRetryDelay         = 2 * time.Second
	DefaultBreakerMaxFailures = 5
	DefaultBreakerOpenTimeout = 60 * time.Second

	DefaultSearchTimeout = 15 * time.Second

	DefaultDailyQuota     = 10
	DefaultMinTopicLength = 3

	DefaultDBPath = "postyar.db"
)

// DefaultMessages carries the stock Persian strings of the bot.
var DefaultMessages = Messages{
	Welcome: `🤖 سلام! من ربات تولید محتوای آموزشی هستم

🔥 قابلیت‌های من:
• جستجو در تمام اینترنت
• تحقیق در لینکدین
• تولید محتوای آموزشی با هوش مصنوعی
• ایجاد پست‌های جذاب و کاربردی

✨ کافیه موضوع مورد نظرتون رو بفرستین!`,

	Help: `📚 راهنمای استفاده:

1️⃣ موضوع خود را بنویسید
2️⃣ صبر کنید تا تحقیق انجام شود
3️⃣ دو پست آموزشی دریافت کنید

⏱ زمان تحقیق: 30-60 ثانیه

دستورات بیشتر:
/saved — محتوای ذخیره‌شده
/settings — تنظیمات
/analytics — آمار شما
/feedback — ارسال بازخورد
/remind — تنظیم یادآوری`,

	AskTopic: `📝 لطفا موضوع مورد نظر خود را بنویسید:

مثال: مدیریت فروش با هوش مصنوعی`,

	AdvancedTips: `🔬 جستجوی پیشرفته:

برای نتایج بهتر، موضوع خود را دقیق‌تر بنویسید:

✅ خوب: "استراتژی‌های بازاریابی دیجیتال برای کسب‌وکارهای کوچک"
❌ بد: "بازاریابی"

💡 نکته: هرچه موضوع دقیق‌تر باشد، محتوای بهتری تولید می‌شود!`,

	Cancelled:        "❌ درخواست لغو شد.",
	TopicTooShort:    "⚠️ لطفا موضوع دقیق‌تری وارد کنید (حداقل %d کاراکتر)",
	QuotaExceeded:    "⚠️ سقف روزانه شما (%d درخواست) پر شده است. فردا دوباره تلاش کنید.",
	Researching:      "🔍 در حال جستجو در اینترنت...",
	Generating:       "🤖 در حال تولید محتوا با هوش مصنوعی...",
	GenerationFailed: "❌ خطا در اتصال به سرویس هوش مصنوعی. لطفا مجددا تلاش کنید.",
	FallbackNotice:   "⚠️ محتوا بر اساس تحقیقات تولید شد (بدون هوش مصنوعی)",
	Done:             "✅ تولید محتوا با موفقیت انجام شد!\n\n💡 برای موضوع جدید، دکمه زیر را فشار دهید:",
	GeneralError:     "❌ خطای غیرمنتظره. لطفا مجددا تلاش کنید.",
	NotAuthorized:    "⛔️ شما اجازه استفاده از این دستور را ندارید.",
	NoSavedContent:   "📭 هنوز محتوایی ذخیره نکرده‌اید.",
	SourcesHeader:    "📚 منابع پیشنهادی:",
	FeedbackThanks:   "🙏 از بازخورد شما متشکریم!",
}
