package service

import "fmt"

const signature = "\n\nSincerely,\n\nThe Inkwell Team\n\nNote: replies to this email address are not monitored.\n"

func confirmText(username, link string) string {
	return fmt.Sprintf("Dear %s,\n\nWelcome to Inkwell!\n\nTo confirm your account please click on the following link:\n\n%s", username, link) + signature
}

func resetText(username, link string) string {
	return fmt.Sprintf("Dear %s,\n\nTo reset your password click on the following link:\n\n%s\n\nIf you have not requested a password reset simply ignore this message.", username, link) + signature
}

func changeEmailText(username, link string) string {
	return fmt.Sprintf("Dear %s,\n\nTo confirm your new email address click on the following link:\n\n%s", username, link) + signature
}
