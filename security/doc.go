// Package security builds TLS client settings for the inference sidecars.
//
// Sidecars usually listen on plain HTTP next to the service. When they run
// elsewhere, a backend config can carry a "tls" block:
//
//	diarization:
//	  backends:
//	    pyannote:
//	      base_url: https://diarizer.internal:8388
//	      tls:
//	        ca_file: /etc/speechkit/ca.pem
//	        cert_file: /etc/speechkit/client.pem
//	        key_file: /etc/speechkit/client-key.pem
package security
