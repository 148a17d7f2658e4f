package mysql

const lookupMailboxSQL = `
SELECT mailbox
FROM hotel_mailboxes
WHERE hotel_id = ? AND active = 1
`

const upsertMailboxSQL = `
INSERT INTO hotel_mailboxes
  (hotel_id, mailbox, active)
VALUES
  (?, ?, ?)
ON DUPLICATE KEY UPDATE
  mailbox    = VALUES(mailbox),
  active     = VALUES(active),
  updated_at = CURRENT_TIMESTAMP
`
