// Package email sends transactional mail.
//
// Production uses Postmark; development writes each message to a directory as
// an .html body plus a .json metadata file. NewSender picks the backend from
// Config.
package email
