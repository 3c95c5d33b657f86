package referral

import (
	"eventdesk/common/constant"
	"eventdesk/model"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/oklog/ulid/v2"
)

// GenerateCode derives a referral code from the campaign name, e.g.
// "Summer 2025" becomes "SUMMER20-" followed by a random suffix.
func GenerateCode(campaignName string) string {
	id := ulid.Make().String()
	return CodeWithSuffix(campaignName, id[len(id)-constant.ReferralCodeSuffixLength:])
}

func CodeWithSuffix(campaignName, suffix string) string {
	var prefix strings.Builder
	for _, r := range strings.ToUpper(campaignName) {
		if prefix.Len() >= constant.ReferralCodePrefixLength {
			break
		}
		if r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			prefix.WriteRune(r)
		}
	}
	if prefix.Len() == 0 {
		prefix.WriteString("REF")
	}

	return prefix.String() + "-" + strings.ToUpper(suffix)
}

// BuildLink returns the public registration link carrying the referral code.
func BuildLink(baseURL string, eventID model.ID, code string) string {
	values := url.Values{}
	values.Set("event_id", eventID.String())
	values.Set("ref", code)

	return strings.TrimRight(baseURL, "/") + "/register?" + values.Encode()
}

func ShareLinks(link, code, eventName string) model.ShareLinks {
	text := fmt.Sprintf("Register for %s with my referral code %s", eventName, code)
	if eventName == "" {
		text = fmt.Sprintf("Register with my referral code %s", code)
	}

	escapedLink := url.QueryEscape(link)
	escapedText := url.QueryEscape(text)

	return model.ShareLinks{
		ReferralLink: link,
		QRCodeURL:    fmt.Sprintf(constant.QRCodeURLTemplate, escapedLink),
		Facebook:     "https://www.facebook.com/sharer/sharer.php?u=" + escapedLink,
		Twitter:      "https://twitter.com/intent/tweet?text=" + escapedText + "&url=" + escapedLink,
		WhatsApp:     "https://wa.me/?text=" + url.QueryEscape(text+" "+link),
		LinkedIn:     "https://www.linkedin.com/sharing/share-offsite/?url=" + escapedLink,
		Telegram:     "https://t.me/share/url?url=" + escapedLink + "&text=" + escapedText,
		SMS:          "sms:?body=" + mailEscape(text+" "+link),
		Email:        "mailto:?subject=" + mailEscape(eventName) + "&body=" + mailEscape(text+"\n\n"+link),
	}
}

// mailEscape escapes for mailto and sms URIs, where "+" is not a space.
func mailEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
