// Package git serves hunt packs from a Git repository.
//
// A Repository clones the configured branch into a local checkout and pulls
// it on demand. A Poller pulls on a fixed interval and calls back when a
// commit touches the pack file, which lets detection engineers keep hunt
// packs under review in Git and have watch mode pick up merged changes.
//
//	repo, err := git.NewRepository(&cfg.Pack.Git)
//	if err != nil {
//	    return err
//	}
//	if err := repo.Clone(ctx); err != nil {
//	    return err
//	}
//	p, err := pack.Load(repo.Path(cfg.Pack.Path))
//
// Authentication supports public repositories, HTTPS access tokens and SSH
// keys.
package git
