package constant

const EmailReferralShareSubject = "Join us at %s"

const EmailReferralShareTemplate = `
Hello,

%s invited you to register for %s.

Register with this personal link:
%s

Referral code: %s
%s
------------------------------------------

Best regards,
Event Management Team

Note: This is an automated message, please do not reply to this email.
`

const EmailPaymentReminderSubject = "Payment %s: %s"

const EmailPaymentReminderTemplate = `
Dear %s,

This is a reminder about the following payment.

Payment Details:
------------------------------------------
Payment ID: %s
Type: %s
Amount: %s
Status: %s
Due Date: %s
------------------------------------------

If you have any questions, please contact the finance team.

Best regards,
Event Management Team

Note: This is an automated message, please do not reply to this email.
`
