package assets

import "strings"

const DefaultIcon = "StarIcon"

var iconsByKeyword = map[string]string{
	"growth":      "RocketLaunchIcon",
	"progress":    "ChartBarIcon",
	"success":     "CheckCircleIcon",
	"achievement": "TrophyIcon",
	"target":      "FlagIcon",

	"security":   "ShieldCheckIcon",
	"protection": "LockClosedIcon",
	"safe":       "ShieldExclamationIcon",
	"privacy":    "EyeSlashIcon",

	"team":      "UserGroupIcon",
	"people":    "UsersIcon",
	"user":      "UserIcon",
	"profile":   "UserCircleIcon",
	"community": "UserGroupIcon",

	"love":      "HeartIcon",
	"favorite":  "HeartIcon",
	"like":      "HandThumbUpIcon",
	"happy":     "FaceSmileIcon",
	"celebrate": "SparklesIcon",

	"data":      "ChartBarIcon",
	"analytics": "ChartPieIcon",
	"graph":     "PresentationChartLineIcon",
	"report":    "DocumentChartBarIcon",
	"stats":     "ChartBarSquareIcon",

	"light":  "SunIcon",
	"bright": "BoltIcon",
	"energy": "BoltIcon",
	"power":  "FireIcon",
	"spark":  "SparklesIcon",

	"message":      "ChatBubbleLeftIcon",
	"chat":         "ChatBubbleOvalLeftEllipsisIcon",
	"email":        "EnvelopeIcon",
	"notification": "BellIcon",
	"announcement": "MegaphoneIcon",

	"time":     "ClockIcon",
	"calendar": "CalendarIcon",
	"schedule": "CalendarDaysIcon",
	"deadline": "ClockIcon",

	"location": "MapPinIcon",
	"map":      "MapIcon",
	"travel":   "GlobeAltIcon",
	"world":    "GlobeAmericasIcon",

	"money":   "CurrencyDollarIcon",
	"finance": "BanknotesIcon",
	"payment": "CreditCardIcon",
	"price":   "ReceiptPercentIcon",

	"tech":   "ComputerDesktopIcon",
	"mobile": "DevicePhoneMobileIcon",
	"code":   "CodeBracketIcon",
	"api":    "CommandLineIcon",
	"cloud":  "CloudIcon",

	"action":  "PlayIcon",
	"start":   "ArrowRightIcon",
	"go":      "ArrowRightCircleIcon",
	"forward": "ForwardIcon",
	"back":    "BackwardIcon",

	"photo": "PhotoIcon",
	"image": "PhotoIcon",
	"video": "VideoCameraIcon",
	"music": "MusicalNoteIcon",

	"learn":     "AcademicCapIcon",
	"education": "BookOpenIcon",
	"study":     "BookmarkIcon",
	"knowledge": "LightBulbIcon",

	"shop":  "ShoppingBagIcon",
	"cart":  "ShoppingCartIcon",
	"store": "BuildingStorefrontIcon",

	"settings": "Cog6ToothIcon",
	"tools":    "WrenchScrewdriverIcon",
	"edit":     "PencilIcon",
	"delete":   "TrashIcon",
	"add":      "PlusCircleIcon",

	"check":   "CheckIcon",
	"error":   "ExclamationTriangleIcon",
	"warning": "ExclamationCircleIcon",
	"info":    "InformationCircleIcon",

	"nature": "SparklesIcon",
	"tree":   "GlobeAltIcon",
	"leaf":   "SparklesIcon",
	"flower": "SparklesIcon",
}

// IconForKeyword maps a keyword to a Heroicons component name.
func IconForKeyword(keyword string) string {
	if name, ok := iconsByKeyword[strings.ToLower(strings.TrimSpace(keyword))]; ok {
		return name
	}
	return DefaultIcon
}
