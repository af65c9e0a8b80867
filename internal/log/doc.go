// Package log builds the application logger on top of slog.
//
// Every logger returned here wraps its handlers in a SecureHandler, which
// keeps decryption material out of log output:
//   - Paste references carry their key in the URL fragment. The fragment is
//     replaced with MaskValue wherever a URL is logged.
//   - Proxy URLs lose their password.
//   - Attributes whose key names a secret are masked entirely.
//
// # Usage
//
//	logger, closer, err := log.NewLogger(log.Options{
//	    Writer:  os.Stderr,
//	    Verbose: true,
//	    File:    "fgscrap.log", // optional rotating JSON copy
//	})
//	if err != nil {
//	    return err
//	}
//	defer closer.Close()
//
//	logger.Warn("attachment is missing",
//	    "reference", "https://paste.example/?abc#SecretKey", // logged as ...#***REDACTED***
//	)
package log
